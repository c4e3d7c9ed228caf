package gerrydb

import "strings"

// NormalizePath converts a raw, user-supplied path to canonical form:
// segments are lowercased, surrounding whitespace is trimmed, and empty
// segments (leading, trailing, or repeated slashes) are dropped. The result
// never carries a leading or trailing slash. Normalization is idempotent.
func NormalizePath(path string) string {
	segs := strings.Split(strings.TrimSpace(path), "/")
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		out = append(out, strings.ToLower(seg))
	}
	return strings.Join(out, "/")
}

// FullPath joins a namespace and a normalized object path into the absolute
// form used in messages and cross-namespace references, e.g.
// "/atlantis/central_atlantis".
func FullPath(namespace, path string) string {
	return "/" + namespace + "/" + path
}
