package reconcile

import (
	"context"
	"sync/atomic"

	"storectl/core/retry"
	"storectl/core/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Action identifies the kind of operation reported to a progress callback.
type Action string

const (
	ActionCopy   Action = "copy"
	ActionDelete Action = "delete"
)

// ProgressFunc is invoked once per attempted action, after it reaches a
// terminal state. err is nil on success. Called from worker goroutines;
// implementations must be safe for concurrent use.
type ProgressFunc func(action Action, key string, err error)

// ExecuteOptions tunes plan execution.
type ExecuteOptions struct {
	// Retry governs each get, put and delete individually.
	Retry retry.Config
	// Parallel bounds concurrent operations within a phase. Values below 1
	// run sequentially.
	Parallel int
	// DryRun reports the plan as if executed, issuing no storage calls.
	DryRun bool
	// Logger records per-key failures. Nil disables logging.
	Logger *zap.Logger
	// OnProgress, when set, observes every attempted action.
	OnProgress ProgressFunc
}

// Execute applies a plan: every ToCopy key is read from the source root and
// written under the destination root, then every ToDelete key is removed
// from the destination. The copy phase fully completes before the first
// delete is issued, so a failing delete can never remove data whose copy
// was not yet attempted.
//
// One failing key never aborts the batch; its failure is counted under
// Errors and the batch continues. Within a phase keys run concurrently up
// to Parallel with no ordering guarantee. Cancelling ctx stops scheduling
// new operations; in-flight ones resolve and are counted, keeping the
// result internally consistent.
func Execute(ctx context.Context, plan Plan, source, dest Source, opts ExecuteOptions) Result {
	if opts.DryRun {
		return Result{
			Copied:  len(plan.ToCopy),
			Removed: len(plan.ToDelete),
			Skipped: plan.Skipped,
			DryRun:  true,
		}
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry = retry.DefaultConfig()
	}
	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}

	var copied, removed, errs atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, key := range plan.ToCopy {
		key := key
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := copyKey(gctx, source, dest, key, opts.Retry); err != nil {
				errs.Add(1)
				log.Warn("copy failed",
					zap.String("key", key),
					zap.Error(err),
				)
				report(opts.OnProgress, ActionCopy, key, err)
				return nil
			}
			copied.Add(1)
			report(opts.OnProgress, ActionCopy, key, nil)
			return nil
		})
	}
	_ = g.Wait()

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, key := range plan.ToDelete {
		key := key
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			target := dest.ObjectKey(key)
			_, err := retry.Do(gctx, opts.Retry, func() (struct{}, error) {
				return struct{}{}, dest.Client.RemoveObject(gctx, dest.Bucket, target)
			}, retry.Retryable)
			if err != nil {
				errs.Add(1)
				log.Warn("delete failed",
					zap.String("key", key),
					zap.Error(err),
				)
				report(opts.OnProgress, ActionDelete, key, err)
				return nil
			}
			removed.Add(1)
			report(opts.OnProgress, ActionDelete, key, nil)
			return nil
		})
	}
	_ = g.Wait()

	return Result{
		Copied:  int(copied.Load()),
		Removed: int(removed.Load()),
		Skipped: plan.Skipped,
		Errors:  int(errs.Load()),
	}
}

// copyKey transfers one object. The read and the write are retried
// independently so a transient failure on one half does not repeat the
// other.
func copyKey(ctx context.Context, source, dest Source, key string, cfg retry.Config) error {
	data, err := retry.Do(ctx, cfg, func() ([]byte, error) {
		return source.Client.GetObject(ctx, source.Bucket, source.ObjectKey(key))
	}, retry.Retryable)
	if err != nil {
		return err
	}

	_, err = retry.Do(ctx, cfg, func() (storage.ObjectMeta, error) {
		return dest.Client.PutObject(ctx, dest.Bucket, dest.ObjectKey(key), data, "")
	}, retry.Retryable)
	return err
}

func report(fn ProgressFunc, action Action, key string, err error) {
	if fn != nil {
		fn(action, key, err)
	}
}
