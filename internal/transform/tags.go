package transform

import (
	"sort"
	"strings"
)

// IdentityTags returns the tag list unchanged (as a copy).
func IdentityTags() TagRewriter {
	return func(tags []string) []string {
		return append([]string(nil), tags...)
	}
}

// FilterByPrefix keeps a tag iff it starts with any of the given prefixes,
// preserving relative order.
func FilterByPrefix(prefixes ...string) TagRewriter {
	return func(tags []string) []string {
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			for _, p := range prefixes {
				if strings.HasPrefix(tag, p) {
					out = append(out, tag)
					break
				}
			}
		}
		return out
	}
}

// ReplaceSeparator replaces every occurrence of old with new in each tag.
func ReplaceSeparator(old, new string) TagRewriter {
	return func(tags []string) []string {
		out := make([]string, len(tags))
		for i, tag := range tags {
			out[i] = strings.ReplaceAll(tag, old, new)
		}
		return out
	}
}

// SortedTags sorts the tag list lexicographically.
func SortedTags() TagRewriter {
	return func(tags []string) []string {
		out := append([]string(nil), tags...)
		sort.Strings(out)
		return out
	}
}

// ComposeTags threads a tag list through rewriters in order, so
// ComposeTags(f, g)(tags) == g(f(tags)).
func ComposeTags(rewriters ...TagRewriter) TagRewriter {
	return func(tags []string) []string {
		out := append([]string(nil), tags...)
		for _, r := range rewriters {
			out = r(out)
		}
		return out
	}
}
