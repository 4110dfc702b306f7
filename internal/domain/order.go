package domain

import (
	"slices"
	"unicode"
	"unicode/utf8"
)

// CompareFold compares two strings lexicographically ignoring case.
// Each rune is folded with ToLower(ToUpper(r)); when one string is a prefix
// of the other the shorter one orders first. Dates are never parsed, so
// "2024-06-01" > "2023-12-31T23:59" and differently formatted strings
// order by their characters alone.
func CompareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		a, b = a[na:], b[nb:]
		if ra == rb {
			continue
		}
		fa := unicode.ToLower(unicode.ToUpper(ra))
		fb := unicode.ToLower(unicode.ToUpper(rb))
		if fa != fb {
			if fa < fb {
				return -1
			}
			return 1
		}
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// ByDateTimeDesc orders thumbnails newest first by their date string
func ByDateTimeDesc(x, y Thumbnail) int {
	return CompareFold(y.DateTime, x.DateTime)
}

// SortByDateTimeDesc returns a sorted copy of items. The sort is stable so
// thumbnails with equal dates keep their incoming order. The input is not modified.
func SortByDateTimeDesc(items []Thumbnail) []Thumbnail {
	if items == nil {
		return nil
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, ByDateTimeDesc)
	return sorted
}

// IsSortedByDateTimeDesc reports whether items already satisfy the ordering
func IsSortedByDateTimeDesc(items []Thumbnail) bool {
	return slices.IsSortedFunc(items, ByDateTimeDesc)
}
