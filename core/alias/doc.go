// Package alias manages named references to storage endpoints.
//
// An alias bundles an endpoint URL, credentials and addressing options under
// a short name so commands can say "prod/bucket/prefix" instead of spelling
// out a connection. The store is a JSON document in the user config
// directory, written with owner-only permissions since it holds secrets.
package alias
