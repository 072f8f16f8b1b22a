// Package strings cleans list-valued configuration such as broker addresses
// and party seed entries.
package strings

import (
	"strings"
)

// CleanList trims each entry and drops blanks and repeats. The first
// occurrence wins and order is kept. A nil input stays nil.
func CleanList(values []string) []string {
	return cleanWith(values, strings.TrimSpace)
}

// CleanFoldList is CleanList for case-insensitive values such as host names;
// entries come back lower-cased.
func CleanFoldList(values []string) []string {
	return cleanWith(values, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

func cleanWith(values []string, norm func(string) string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = norm(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
