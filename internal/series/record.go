package series

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrProgressNotAllowed reports a season/episode marker on a category
	// that does not track progress.
	ErrProgressNotAllowed = errors.New("progress only applies to watching or abandoned series")
	// ErrInvalidYear reports a year that is neither empty nor four digits.
	ErrInvalidYear = errors.New("invalid year")
)

// Progress is the season/episode marker carried by Watching and Abandoned
// records. Values are free text so inputs such as "N/A" survive unchanged.
type Progress struct {
	Season  string `json:"season"`
	Episode string `json:"episode"`
}

// Record is one tracked series.
type Record struct {
	ID            string    `json:"id"`
	Query         string    `json:"query"`
	Title         string    `json:"title"`
	Year          string    `json:"year"`
	Genres        string    `json:"genres"`
	CatalogRating *float64  `json:"catalog_rating"`
	UserRating    *float64  `json:"user_rating"`
	PosterURL     string    `json:"poster_url,omitempty"`
	SeasonCount   *int      `json:"season_count"`
	EpisodeCount  *int      `json:"episode_count"`
	Category      Category  `json:"category"`
	Progress      *Progress `json:"progress,omitempty"`
}

// NewRecord assigns a fresh ID and attaches progress according to the
// category: categories that track progress always get a marker (blank when
// progress is nil), the others reject one.
func NewRecord(rec Record, progress *Progress) (Record, error) {
	if !rec.Category.Valid() {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidCategory, rec.Category)
	}
	switch {
	case rec.Category.TracksProgress() && progress == nil:
		progress = &Progress{}
	case !rec.Category.TracksProgress() && progress != nil && !progress.Empty():
		return Record{}, fmt.Errorf("%w: category %s", ErrProgressNotAllowed, rec.Category)
	case !rec.Category.TracksProgress():
		progress = nil
	}
	rec.Progress = progress
	rec = rec.Normalized()
	rec.ID = NewID()
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// NewID returns a new record identifier.
func NewID() string {
	return uuid.NewString()
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("record id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("record title is required")
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, r.Category)
	}
	if !validYear(r.Year) {
		return fmt.Errorf("%w: %q", ErrInvalidYear, r.Year)
	}
	if r.Category.TracksProgress() && r.Progress == nil {
		return fmt.Errorf("category %s requires a progress marker", r.Category)
	}
	if !r.Category.TracksProgress() && r.Progress != nil {
		return fmt.Errorf("%w: category %s", ErrProgressNotAllowed, r.Category)
	}
	return ValidateRating(r.UserRating)
}

// Normalized returns a copy with surrounding whitespace removed from every
// text field, so every backend persists the same values.
func (r Record) Normalized() Record {
	r.ID = strings.TrimSpace(r.ID)
	r.Query = strings.TrimSpace(r.Query)
	r.Title = strings.TrimSpace(r.Title)
	r.Year = strings.TrimSpace(r.Year)
	r.Genres = strings.TrimSpace(r.Genres)
	r.PosterURL = strings.TrimSpace(r.PosterURL)
	if r.Progress != nil {
		p := r.Progress.normalized()
		r.Progress = &p
	}
	return r
}

// NormalizeYear accepts an empty value, four digits, or an integral number
// written as a float ("2017.0") and returns the four-digit form.
func NormalizeYear(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || validYear(value) {
		return value, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err == nil && f == math.Trunc(f) && f >= 1000 && f <= 9999 {
		return strconv.Itoa(int(f)), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidYear, value)
}

func validYear(year string) bool {
	if year == "" {
		return true
	}
	if len(year) != 4 {
		return false
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// WithUserRating returns a copy with the personal rating replaced.
func (r Record) WithUserRating(rating *float64) (Record, error) {
	if err := ValidateRating(rating); err != nil {
		return r, err
	}
	r.UserRating = cloneFloat(rating)
	return r, nil
}

// WithProgress returns a copy with the progress marker replaced.
func (r Record) WithProgress(progress Progress) (Record, error) {
	if !r.Category.TracksProgress() {
		return r, fmt.Errorf("%w: category %s", ErrProgressNotAllowed, r.Category)
	}
	p := progress.normalized()
	r.Progress = &p
	return r, nil
}

// Season returns the current season marker, or "" when the category does not
// track progress.
func (r Record) Season() string {
	if r.Progress == nil {
		return ""
	}
	return r.Progress.Season
}

// Episode returns the current episode marker, or "" when the category does
// not track progress.
func (r Record) Episode() string {
	if r.Progress == nil {
		return ""
	}
	return r.Progress.Episode
}

// Empty reports whether neither season nor episode is set.
func (p Progress) Empty() bool {
	return strings.TrimSpace(p.Season) == "" && strings.TrimSpace(p.Episode) == ""
}

func (p Progress) normalized() Progress {
	return Progress{Season: strings.TrimSpace(p.Season), Episode: strings.TrimSpace(p.Episode)}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
