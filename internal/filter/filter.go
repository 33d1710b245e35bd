// Package filter implements the text narrowing every screen applies to its
// collections: pure, case-insensitive, order-preserving substring match.
package filter

import "strings"

// Narrow returns the items whose searchable fields contain the query,
// case-insensitively. The empty query returns the input unchanged and the
// input order is always preserved. The input slice is never mutated.
func Narrow[T any](items []T, query string, fields func(T) []string) []T {
	if query == "" || fields == nil {
		return items
	}
	needle := strings.ToLower(query)
	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}
