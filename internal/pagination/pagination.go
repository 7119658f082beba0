// Package pagination slices ordered results into fixed-size pages.
package pagination

import (
	"strconv"
	"strings"
)

// Size is the number of items per page
const Size = 10

// Page parses a 1-based page number. Absent, non-numeric and non-positive
// values select the first page.
func Page(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Slice returns the items on page, clipped to the bounds of items.
// A page past the end yields an empty, non-nil slice.
func Slice[T any](items []T, page int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * Size
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := min(start+Size, len(items))
	return items[start:end]
}
