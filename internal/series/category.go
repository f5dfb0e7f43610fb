package series

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Category classifies a record. Every record has exactly one.
type Category string

const (
	CategoryWatching  Category = "Watching"
	CategoryCompleted Category = "Completed"
	CategoryWatchlist Category = "Watchlist"
	CategoryAbandoned Category = "Abandoned"
)

// ErrInvalidCategory reports an unrecognized category label.
var ErrInvalidCategory = errors.New("invalid category")

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryWatching, CategoryCompleted, CategoryWatchlist, CategoryAbandoned}
}

var categoryAliases = map[string]Category{
	"watching":   CategoryWatching,
	"assistindo": CategoryWatching,
	"completed":  CategoryCompleted,
	"concluído":  CategoryCompleted,
	"concluido":  CategoryCompleted,
	"watchlist":  CategoryWatchlist,
	"abandoned":  CategoryAbandoned,
	"abandonado": CategoryAbandoned,
}

// ParseCategory resolves a category label case-insensitively. Labels written
// by older Portuguese-language stores are accepted as aliases.
func ParseCategory(value string) (Category, error) {
	key := cases.Fold().String(strings.TrimSpace(value))
	if category, ok := categoryAliases[key]; ok {
		return category, nil
	}
	return "", fmt.Errorf("%w: %q (want one of watching, completed, watchlist, abandoned)", ErrInvalidCategory, value)
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWatching, CategoryCompleted, CategoryWatchlist, CategoryAbandoned:
		return true
	default:
		return false
	}
}

// TracksProgress reports whether records in this category carry a
// season/episode marker: the current position for Watching, the stopping
// point for Abandoned.
func (c Category) TracksProgress() bool {
	return c == CategoryWatching || c == CategoryAbandoned
}

func (c Category) String() string {
	return string(c)
}
