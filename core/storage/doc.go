// Package storage provides an abstraction layer for S3-compatible object
// storage services.
//
// It wraps the AWS SDK v2 S3 client behind a small Client interface so the
// reconciliation core never touches a concrete backend type, and so unit
// tests can substitute in-memory fakes (see core/storage/mocks).
//
// # Listing
//
// Listing is page-oriented: ListPage returns one page plus a continuation
// token, and callers drain pages themselves. This keeps pagination visible
// to the listing materializer, which needs to treat a failed page as a
// failed materialization rather than a silently shortened one.
//
// # Operations
//
//   - BucketExists: existence pre-check before a mirror or listing.
//   - ListPage: one page of keys under a prefix.
//   - StatObject / GetObject / PutObject / RemoveObject: per-key I/O.
//   - PresignedGet: time-limited download URL for sharing.
//
// # Usage
//
//	client, err := storage.NewClient(ctx, cfg)
//	page, err := client.ListPage(ctx, "assets", storage.ListPageOptions{Recursive: true})
package storage
