// Package strings provides string list helpers for configuration parsing.
package strings

import (
	"strings"
)

// SplitList splits a comma separated value, trims each element and drops
// empty and repeated elements. Order of first occurrence is preserved.
//
// Example:
//
//	SplitList(" a:9092, b:9092,,a:9092 ")
//	// Returns: []string{"a:9092", "b:9092"}
func SplitList(raw string) []string {
	return DedupeAndTrim(strings.Split(raw, ","))
}

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
func DedupeAndTrim(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}
