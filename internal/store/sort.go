package store

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField names a column entries can be ordered by.
type SortField string

const (
	SortNone          SortField = ""
	SortTitle         SortField = "title"
	SortYear          SortField = "year"
	SortCatalogRating SortField = "catalog_rating"
	SortUserRating    SortField = "user_rating"
)

// SortFields lists the accepted sort fields.
func SortFields() []SortField {
	return []SortField{SortTitle, SortYear, SortCatalogRating, SortUserRating}
}

// ParseSortField accepts the field names plus a few short forms.
func ParseSortField(value string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none", "position":
		return SortNone, nil
	case "title", "name":
		return SortTitle, nil
	case "year":
		return SortYear, nil
	case "catalog_rating", "catalog", "tmdb", "tmdb_rating":
		return SortCatalogRating, nil
	case "user_rating", "user", "rating":
		return SortUserRating, nil
	default:
		return SortNone, fmt.Errorf("unknown sort field %q", value)
	}
}

// Sort orders entries ascending by field without touching positions. Empty
// strings sort first, missing numbers sort last, and ties keep store order.
func Sort(entries []Entry, field SortField) {
	switch field {
	case SortNone:
		return
	case SortTitle:
		col := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return col.CompareString(a.Record.Title, b.Record.Title)
		})
	case SortYear:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return strings.Compare(a.Record.Year, b.Record.Year)
		})
	case SortCatalogRating:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return compareNullable(a.Record.CatalogRating, b.Record.CatalogRating)
		})
	case SortUserRating:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return compareNullable(a.Record.UserRating, b.Record.UserRating)
		})
	}
}

func compareNullable(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
