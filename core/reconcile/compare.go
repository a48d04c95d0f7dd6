package reconcile

import "sort"

// Compare classifies every key of both listings into exactly one status.
// The result covers the union of both key sets and is sorted ascending by
// key; callers depend on that order for stable output. Pure: no I/O, no
// mutation of either listing.
func Compare(first, second Listing) []Entry {
	entries := make([]Entry, 0, len(first)+len(second))

	for key, f := range first {
		s, ok := second[key]
		if !ok {
			entries = append(entries, Entry{
				Key:           key,
				Status:        StatusOnlyFirst,
				FirstSize:     f.Size,
				FirstModified: f.Modified,
			})
			continue
		}

		status := StatusDifferent
		if f.Equal(s) {
			status = StatusSame
		}
		entries = append(entries, Entry{
			Key:            key,
			Status:         status,
			FirstSize:      f.Size,
			SecondSize:     s.Size,
			FirstModified:  f.Modified,
			SecondModified: s.Modified,
		})
	}

	for key, s := range second {
		if _, ok := first[key]; ok {
			continue
		}
		entries = append(entries, Entry{
			Key:            key,
			Status:         StatusOnlySecond,
			SecondSize:     s.Size,
			SecondModified: s.Modified,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Summarize counts entries per status.
func Summarize(entries []Entry) Summary {
	summary := Summary{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case StatusSame:
			summary.Same++
		case StatusDifferent:
			summary.Different++
		case StatusOnlyFirst:
			summary.OnlyFirst++
		case StatusOnlySecond:
			summary.OnlySecond++
		}
	}
	return summary
}

// HasDifferences reports whether any entry deviates from Same.
func (s Summary) HasDifferences() bool {
	return s.Different > 0 || s.OnlyFirst > 0 || s.OnlySecond > 0
}
