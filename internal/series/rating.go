package series

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MinRating  = 0.5
	MaxRating  = 5.0
	RatingStep = 0.5
)

// ErrInvalidRating reports a personal rating outside [0.5, 5.0] or off the
// 0.5 grid.
var ErrInvalidRating = errors.New("invalid rating")

// ValidateRating accepts nil (unrated) or a multiple of 0.5 in [0.5, 5.0].
func ValidateRating(rating *float64) error {
	if rating == nil {
		return nil
	}
	v := *rating
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinRating || v > MaxRating {
		return fmt.Errorf("%w: %v is outside [%.1f, %.1f]", ErrInvalidRating, v, MinRating, MaxRating)
	}
	if steps := v / RatingStep; steps != math.Trunc(steps) {
		return fmt.Errorf("%w: %v is not a multiple of %.1f", ErrInvalidRating, v, RatingStep)
	}
	return nil
}

// ParseRating parses a CLI rating value. "none" and the empty string clear the
// rating.
func ParseRating(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "none", "unrated":
		return nil, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidRating, value)
	}
	if err := ValidateRating(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FormatRating renders a nullable rating, using fallback when absent.
func FormatRating(rating *float64, fallback string) string {
	if rating == nil {
		return fallback
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}
