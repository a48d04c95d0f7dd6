// Package retry implements bounded exponential backoff with jitter for
// transient remote-store failures.
//
// Every retrying call site receives an explicit Config; the package keeps no
// ambient state. Callers supply the retryability predicate, typically
// Retryable, so domain code can tighten or relax classification per call.
//
//	page, err := retry.Do(ctx, cfg, func() (storage.ListPage, error) {
//	    return client.ListPage(ctx, bucket, opts)
//	}, retry.Retryable)
package retry
