package reconcile

import (
	"context"
	"strings"

	"storectl/core/retry"
	"storectl/core/storage"
)

// MaterializeConfig tunes listing materialization.
type MaterializeConfig struct {
	// Retry governs each page request.
	Retry retry.Config
	// PageSize limits keys per page; zero uses the backend default.
	PageSize int32
	// Recursive flattens the key space below the prefix. When false only
	// the top level is listed and sub-prefixes surface as directory
	// markers, which materialization drops.
	Recursive bool
}

// Materialize drains a paginated listing under the source's prefix into a
// Listing. Directory markers are dropped. Keys are reported
// relative to the prefix; a key that collapses to the empty string (the
// prefix names a single object) falls back to its last path segment so the
// object still yields one comparable entry.
//
// The operation is all-or-nothing: a page request that fails after retry
// propagates the error and the partial result is discarded. Duplicate
// relative keys within one materialization merge last-write-wins.
func Materialize(ctx context.Context, src Source, cfg MaterializeConfig) (Listing, error) {
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry = retry.DefaultConfig()
	}

	listing := Listing{}
	token := ""

	for {
		opts := storage.ListPageOptions{
			Prefix:            src.Prefix,
			Recursive:         cfg.Recursive,
			ContinuationToken: token,
			MaxKeys:           cfg.PageSize,
		}

		page, err := retry.Do(ctx, cfg.Retry, func() (storage.ListPage, error) {
			return src.Client.ListPage(ctx, src.Bucket, opts)
		}, retry.Retryable)
		if err != nil {
			return nil, err
		}

		for _, entry := range page.Entries {
			if entry.IsPrefix {
				continue
			}

			relative := strings.TrimPrefix(entry.Key, src.Prefix)
			relative = strings.TrimPrefix(relative, "/")
			if relative == "" {
				relative = lastSegment(entry.Key)
			}

			listing[relative] = Fingerprint{
				Size:     entry.Size,
				Modified: entry.LastModified,
				ETag:     entry.ETag,
			}
		}

		if !page.Truncated {
			return listing, nil
		}
		token = page.NextContinuationToken
	}
}

func lastSegment(key string) string {
	trimmed := strings.TrimSuffix(key, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
