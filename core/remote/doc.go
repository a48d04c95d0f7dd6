// Package remote parses and manipulates alias-qualified remote paths.
//
// A remote path has the form alias/bucket[/prefix-or-key]; the alias half is
// resolved to credentials by core/alias, the rest addresses objects inside
// the bucket. Join maps relative keys (as produced by a listing) back to
// absolute keys under a path's prefix.
package remote
