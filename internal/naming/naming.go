// Package naming builds content-addressed file names from category tags and a content hash.
package naming

import (
	"slices"
	"strings"
)

// FallbackTag replaces an empty tag set so names never start with an underscore.
const FallbackTag = "misc"

// Synthesize returns `<tags joined by "_">_<hash><ext>`.
//
// Tags are lower-cased, reduced to [a-z0-9_], deduplicated and sorted, so
// identical content always yields an identical name. An empty tag set uses
// FallbackTag. ext gains a leading dot when it lacks one.
func Synthesize(tags []string, hash, ext string) string {
	clean := make([]string, 0, len(tags))
	for _, tag := range tags {
		if s := Sanitize(tag); s != "" {
			clean = append(clean, s)
		}
	}
	slices.Sort(clean)
	clean = slices.Compact(clean)
	if len(clean) == 0 {
		clean = []string{FallbackTag}
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.Join(clean, "_") + "_" + hash + ext
}

// Sanitize lower-cases tag and replaces every character outside [a-z0-9_]
// with an underscore. Leading and trailing underscores are trimmed.
func Sanitize(tag string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(tag) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
