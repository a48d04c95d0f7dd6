package reconcile

import (
	"time"

	"storectl/core/storage"
)

// Status classifies one key's relation between two listings.
type Status string

const (
	StatusSame       Status = "same"
	StatusDifferent  Status = "different"
	StatusOnlyFirst  Status = "only_first"
	StatusOnlySecond Status = "only_second"
)

// Fingerprint is the metadata captured for one key at listing time.
// Nil pointers mean "unknown"; an empty ETag means the backend did not
// report one, never "empty content".
type Fingerprint struct {
	Size     *int64
	Modified *time.Time
	ETag     string
}

// Equal reports whether two fingerprints describe the same content.
// Sizes must match; etags must match unless either side has none, since
// an absent fingerprint is "unknown", not "mismatched". Modification
// times never participate: clocks across independent stores are not
// assumed synchronized. The rule is commutative.
func (f Fingerprint) Equal(other Fingerprint) bool {
	if !int64PtrEqual(f.Size, other.Size) {
		return false
	}
	if f.ETag == "" || other.ETag == "" {
		return true
	}
	return f.ETag == other.ETag
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Listing maps relative keys to their fingerprints. Immutable once
// materialized; produced by Materialize, consumed read-only by Compare.
type Listing map[string]Fingerprint

// Entry is one key's comparison verdict. Size and modification fields are
// set only for the sides the key exists on.
type Entry struct {
	Key            string     `json:"key"`
	Status         Status     `json:"status"`
	FirstSize      *int64     `json:"first_size,omitempty"`
	SecondSize     *int64     `json:"second_size,omitempty"`
	FirstModified  *time.Time `json:"first_modified,omitempty"`
	SecondModified *time.Time `json:"second_modified,omitempty"`
}

// Summary aggregates entry statuses for reporting.
type Summary struct {
	Same       int `json:"same"`
	Different  int `json:"different"`
	OnlyFirst  int `json:"only_first"`
	OnlySecond int `json:"only_second"`
	Total      int `json:"total"`
}

// Policy controls which differences a mirror acts on.
type Policy struct {
	// Overwrite copies keys that exist on both sides with different content.
	Overwrite bool
	// DeleteExtraneous removes destination keys absent from the source.
	DeleteExtraneous bool
}

// Plan is the deterministic set of actions derived from comparison entries
// under a policy. ToCopy and ToDelete preserve the sorted entry order.
type Plan struct {
	ToCopy   []string `json:"to_copy"`
	ToDelete []string `json:"to_delete"`
	Skipped  int      `json:"skipped"`
}

// Result accounts for every planned action after execution. Skipped is
// carried through from the plan; the other counters increment exactly once
// per attempted action.
type Result struct {
	Copied  int  `json:"copied"`
	Removed int  `json:"removed"`
	Skipped int  `json:"skipped"`
	Errors  int  `json:"errors"`
	DryRun  bool `json:"dry_run"`
}

// Source binds a storage client to one logical root.
type Source struct {
	Client storage.Client
	Bucket string
	// Prefix is the logical root; listed keys are reported relative to it.
	Prefix string
}

// ObjectKey maps a relative key back to an absolute key under the source's
// prefix. An empty or slash-terminated prefix concatenates directly.
func (s Source) ObjectKey(relative string) string {
	if s.Prefix == "" || s.Prefix[len(s.Prefix)-1] == '/' {
		return s.Prefix + relative
	}
	return s.Prefix + "/" + relative
}
