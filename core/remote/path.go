package remote

import (
	"fmt"
	"strings"
)

// Path identifies a remote location as alias/bucket/prefix.
// Key may be empty (whole bucket), a prefix, or a single object key.
type Path struct {
	Alias  string
	Bucket string
	Key    string
}

// Parse splits an "alias/bucket[/key...]" argument into a Path.
// Malformed paths are rejected here, before any I/O happens.
func Parse(raw string) (Path, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Path{}, fmt.Errorf("empty path")
	}
	if strings.HasPrefix(trimmed, "/") {
		return Path{}, fmt.Errorf("invalid path %q: must start with an alias, not '/'", raw)
	}

	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Path{}, fmt.Errorf("invalid path %q: expected alias/bucket[/prefix]", raw)
	}

	p := Path{Alias: parts[0], Bucket: parts[1]}
	if len(parts) == 3 {
		p.Key = parts[2]
	}
	return p, nil
}

// String renders the path back to alias/bucket/key form.
func (p Path) String() string {
	if p.Key == "" {
		return p.Alias + "/" + p.Bucket
	}
	return p.Alias + "/" + p.Bucket + "/" + p.Key
}

// Join maps a relative key back under this path's prefix, producing the
// absolute key for a copy or delete target.
func (p Path) Join(relative string) string {
	if p.Key == "" || strings.HasSuffix(p.Key, "/") {
		return p.Key + relative
	}
	return p.Key + "/" + relative
}
