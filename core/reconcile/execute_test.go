package reconcile_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"storectl/core/reconcile"
	"storectl/core/storage"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory storage.Client that records the order of
// mutating calls.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	ops     []string
	failGet map[string]error
	failPut map[string]error
	failDel map[string]error
}

func newFakeStore(objects map[string][]byte) *fakeStore {
	if objects == nil {
		objects = map[string][]byte{}
	}
	return &fakeStore{
		objects: objects,
		failGet: map[string]error{},
		failPut: map[string]error{},
		failDel: map[string]error{},
	}
}

func (f *fakeStore) record(op, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op+" "+key)
}

func (f *fakeStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return true, nil
}

func (f *fakeStore) ListPage(ctx context.Context, bucket string, opts storage.ListPageOptions) (storage.ListPage, error) {
	return storage.ListPage{}, nil
}

func (f *fakeStore) StatObject(ctx context.Context, bucket, key string) (storage.ObjectMeta, error) {
	return storage.ObjectMeta{Key: key}, nil
}

func (f *fakeStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	f.record("get", key)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failGet[key]; err != nil {
		return nil, err
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: key}
	}
	return data, nil
}

func (f *fakeStore) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) (storage.ObjectMeta, error) {
	f.record("put", key)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failPut[key]; err != nil {
		return storage.ObjectMeta{}, err
	}
	f.objects[key] = data
	return storage.ObjectMeta{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeStore) RemoveObject(ctx context.Context, bucket, key string) error {
	f.record("delete", key)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failDel[key]; err != nil {
		return err
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) PresignedGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	return "https://example.com/" + key, nil
}

func (f *fakeStore) opLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func TestExecute_CopiesAndDeletes(t *testing.T) {
	source := newFakeStore(map[string][]byte{
		"a.txt": []byte("alpha"),
		"b.txt": []byte("beta"),
	})
	dest := newFakeStore(map[string][]byte{
		"stale.txt": []byte("old"),
	})

	plan := reconcile.Plan{
		ToCopy:   []string{"a.txt", "b.txt"},
		ToDelete: []string{"stale.txt"},
		Skipped:  2,
	}

	result := reconcile.Execute(context.Background(), plan,
		reconcile.Source{Client: source, Bucket: "src"},
		reconcile.Source{Client: dest, Bucket: "dst"},
		reconcile.ExecuteOptions{Retry: fastRetry(), Parallel: 1},
	)

	assert.Equal(t, 2, result.Copied)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 2, result.Skipped, "skipped carries through from the plan")
	assert.Zero(t, result.Errors)
	assert.False(t, result.DryRun)

	assert.Equal(t, []byte("alpha"), dest.objects["a.txt"])
	assert.Equal(t, []byte("beta"), dest.objects["b.txt"])
	assert.NotContains(t, dest.objects, "stale.txt")
}

func TestExecute_CopyPhaseCompletesBeforeDeletes(t *testing.T) {
	source := newFakeStore(map[string][]byte{
		"a.txt": []byte("a"),
		"b.txt": []byte("b"),
		"c.txt": []byte("c"),
	})
	dest := newFakeStore(map[string][]byte{
		"x.txt": []byte("x"),
		"y.txt": []byte("y"),
	})

	plan := reconcile.Plan{
		ToCopy:   []string{"a.txt", "b.txt", "c.txt"},
		ToDelete: []string{"x.txt", "y.txt"},
	}

	reconcile.Execute(context.Background(), plan,
		reconcile.Source{Client: source, Bucket: "src"},
		reconcile.Source{Client: dest, Bucket: "dst"},
		reconcile.ExecuteOptions{Retry: fastRetry(), Parallel: 4},
	)

	firstDelete := -1
	lastPut := -1
	for i, op := range dest.opLog() {
		switch op[:3] {
		case "put":
			lastPut = i
		case "del":
			if firstDelete == -1 {
				firstDelete = i
			}
		}
	}
	require.GreaterOrEqual(t, firstDelete, 0)
	require.GreaterOrEqual(t, lastPut, 0)
	assert.Greater(t, firstDelete, lastPut, "all puts must precede the first delete")
}

func TestExecute_PartialFailureContinues(t *testing.T) {
	source := newFakeStore(map[string][]byte{
		"ok.txt":   []byte("fine"),
		"also.txt": []byte("fine"),
	})
	source.failGet["bad.txt"] = &smithy.GenericAPIError{Code: "NoSuchKey", Message: "bad.txt"}

	dest := newFakeStore(nil)
	dest.failDel["locked.txt"] = &smithy.GenericAPIError{Code: "AccessDenied", Message: "locked"}
	dest.objects["gone.txt"] = []byte("x")

	plan := reconcile.Plan{
		ToCopy:   []string{"ok.txt", "bad.txt", "also.txt"},
		ToDelete: []string{"locked.txt", "gone.txt"},
		Skipped:  1,
	}

	result := reconcile.Execute(context.Background(), plan,
		reconcile.Source{Client: source, Bucket: "src"},
		reconcile.Source{Client: dest, Bucket: "dst"},
		reconcile.ExecuteOptions{Retry: fastRetry(), Parallel: 2},
	)

	assert.Equal(t, 2, result.Copied)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 2, result.Errors)
	assert.Equal(t, 1, result.Skipped)

	total := result.Copied + result.Removed + result.Skipped + result.Errors
	assert.Equal(t, len(plan.ToCopy)+len(plan.ToDelete)+plan.Skipped, total,
		"every planned action must reach exactly one terminal state")
}

func TestExecute_PutFailureCountsOnce(t *testing.T) {
	source := newFakeStore(map[string][]byte{"a.txt": []byte("a")})
	dest := newFakeStore(nil)
	dest.failPut["a.txt"] = &smithy.GenericAPIError{Code: "AccessDenied", Message: "no"}

	plan := reconcile.Plan{ToCopy: []string{"a.txt"}}

	result := reconcile.Execute(context.Background(), plan,
		reconcile.Source{Client: source, Bucket: "src"},
		reconcile.Source{Client: dest, Bucket: "dst"},
		reconcile.ExecuteOptions{Retry: fastRetry()},
	)

	assert.Zero(t, result.Copied)
	assert.Equal(t, 1, result.Errors)
}

func TestExecute_DryRunIssuesNoCalls(t *testing.T) {
	source := newFakeStore(map[string][]byte{"new.txt": []byte("n")})
	dest := newFakeStore(map[string][]byte{"extra.txt": []byte("e")})

	plan := reconcile.Plan{
		ToCopy:   []string{"new.txt"},
		ToDelete: []string{"extra.txt"},
		Skipped:  3,
	}

	result := reconcile.Execute(context.Background(), plan,
		reconcile.Source{Client: source, Bucket: "src"},
		reconcile.Source{Client: dest, Bucket: "dst"},
		reconcile.ExecuteOptions{Retry: fastRetry(), DryRun: true},
	)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 3, result.Skipped)
	assert.Zero(t, result.Errors)

	assert.Empty(t, source.opLog(), "dry run must not touch the source")
	assert.Empty(t, dest.opLog(), "dry run must not touch the destination")
	assert.Contains(t, dest.objects, "extra.txt")
}

func TestExecute_MapsKeysUnderPrefixes(t *testing.T) {
	source := newFakeStore(map[string][]byte{
		"backup/a.txt": []byte("a"),
	})
	dest := newFakeStore(map[string][]byte{
		"replica/old.txt": []byte("o"),
	})

	plan := reconcile.Plan{
		ToCopy:   []string{"a.txt"},
		ToDelete: []string{"old.txt"},
	}

	result := reconcile.Execute(context.Background(), plan,
		reconcile.Source{Client: source, Bucket: "src", Prefix: "backup/"},
		reconcile.Source{Client: dest, Bucket: "dst", Prefix: "replica"},
		reconcile.ExecuteOptions{Retry: fastRetry()},
	)

	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, []byte("a"), dest.objects["replica/a.txt"])
	assert.NotContains(t, dest.objects, "replica/old.txt")
}

func TestExecute_ProgressCallback(t *testing.T) {
	source := newFakeStore(map[string][]byte{"a.txt": []byte("a")})
	dest := newFakeStore(map[string][]byte{"b.txt": []byte("b")})

	var mu sync.Mutex
	var events []string
	progress := func(action reconcile.Action, key string, err error) {
		mu.Lock()
		defer mu.Unlock()
		status := "ok"
		if err != nil {
			status = "err"
		}
		events = append(events, string(action)+" "+key+" "+status)
	}

	plan := reconcile.Plan{ToCopy: []string{"a.txt"}, ToDelete: []string{"b.txt"}}

	reconcile.Execute(context.Background(), plan,
		reconcile.Source{Client: source, Bucket: "src"},
		reconcile.Source{Client: dest, Bucket: "dst"},
		reconcile.ExecuteOptions{Retry: fastRetry(), OnProgress: progress},
	)

	assert.Equal(t, []string{"copy a.txt ok", "delete b.txt ok"}, events)
}

func TestExecute_CancelledContextStopsScheduling(t *testing.T) {
	source := newFakeStore(map[string][]byte{"a.txt": []byte("a")})
	dest := newFakeStore(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := reconcile.Plan{ToCopy: []string{"a.txt"}, Skipped: 1}

	result := reconcile.Execute(ctx, plan,
		reconcile.Source{Client: source, Bucket: "src"},
		reconcile.Source{Client: dest, Bucket: "dst"},
		reconcile.ExecuteOptions{Retry: fastRetry()},
	)

	assert.Zero(t, result.Copied)
	assert.Empty(t, dest.opLog(), "no new operations after cancellation")
	assert.Equal(t, 1, result.Skipped)
}
