// Package reconcile implements the diff and mirror pipeline between two
// object-store roots.
//
// The pipeline has five stages. Materialize drains a paginated listing
// into an immutable relative-key map. Compare classifies the union of two
// such maps into four statuses (same, different, only_first, only_second)
// and returns sorted entries. BuildPlan turns entries plus a policy into
// the copy and delete sets a mirror will execute. Execute applies the
// plan with bounded parallelism, retrying each storage call and counting
// partial failures without aborting the batch. Diff wires the first three
// read-only stages together for report-only use.
//
// Compare and BuildPlan are pure; all I/O is confined to Materialize and
// Execute, which operate through the storage.Client interface so tests
// can substitute fakes.
package reconcile
