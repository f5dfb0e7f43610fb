package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"seriestrack/internal/logging"
	"seriestrack/internal/series"
	"seriestrack/internal/tmdb"
)

const (
	DefaultPosterBaseURL = "https://image.tmdb.org/t/p"
	DefaultPosterSize    = "w500"
	DefaultUnknownGenre  = "Unknown"
)

var (
	// ErrNotFound reports that the search produced no usable match.
	ErrNotFound = errors.New("series not found")
	// ErrCatalogUnavailable reports a failed search call. Errors carrying it
	// also match ErrNotFound.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrEmptyQuery reports a blank search string.
	ErrEmptyQuery = errors.New("query must not be empty")
)

type unavailableError struct {
	err error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrNotFound, ErrCatalogUnavailable, e.err)
}

func (e *unavailableError) Is(target error) bool {
	return target == ErrNotFound || target == ErrCatalogUnavailable
}

func (e *unavailableError) Unwrap() error { return e.err }

// Descriptor is the best catalog match for a query.
type Descriptor struct {
	CatalogID        int64    `json:"tmdb_id"`
	Title            string   `json:"title"`
	Year             string   `json:"year"`
	Genres           string   `json:"genres"`
	CatalogRating    *float64 `json:"catalog_rating"`
	PosterURL        string   `json:"poster_url,omitempty"`
	SeasonCount      *int     `json:"season_count"`
	EpisodeCount     *int     `json:"episode_count"`
	OriginalLanguage string   `json:"original_language,omitempty"`
}

// Record merges the descriptor with user-entered state into a new series
// record.
func (d Descriptor) Record(query string, category series.Category, rating *float64, progress *series.Progress) (series.Record, error) {
	return series.NewRecord(series.Record{
		Query:         strings.TrimSpace(query),
		Title:         d.Title,
		Year:          d.Year,
		Genres:        d.Genres,
		CatalogRating: d.CatalogRating,
		UserRating:    rating,
		PosterURL:     d.PosterURL,
		SeasonCount:   d.SeasonCount,
		EpisodeCount:  d.EpisodeCount,
		Category:      category,
	}, progress)
}

// Options configures poster URL composition and genre fallbacks.
type Options struct {
	PosterBaseURL string
	PosterSize    string
	UnknownGenre  string
}

// Resolver looks up series metadata. Safe for concurrent use.
type Resolver struct {
	catalog tmdb.Catalog
	opts    Options
	logger  *slog.Logger

	genresOnce sync.Once
	genres     map[int64]string
}

// New constructs a Resolver backed by catalog.
func New(catalog tmdb.Catalog, opts Options, logger *slog.Logger) *Resolver {
	opts.PosterBaseURL = strings.TrimRight(strings.TrimSpace(opts.PosterBaseURL), "/")
	if opts.PosterBaseURL == "" {
		opts.PosterBaseURL = DefaultPosterBaseURL
	}
	opts.PosterSize = strings.Trim(strings.TrimSpace(opts.PosterSize), "/")
	if opts.PosterSize == "" {
		opts.PosterSize = DefaultPosterSize
	}
	if strings.TrimSpace(opts.UnknownGenre) == "" {
		opts.UnknownGenre = DefaultUnknownGenre
	}
	return &Resolver{
		catalog: catalog,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "resolver"),
	}
}

// ResolveGenres returns the genre id to name table. It is fetched on first
// use and cached for the Resolver's lifetime; a failed fetch caches an empty
// table.
func (r *Resolver) ResolveGenres(ctx context.Context) map[int64]string {
	r.genresOnce.Do(func() {
		r.genres = map[int64]string{}
		resp, err := r.catalog.GenreList(ctx)
		if err != nil {
			logging.WarnWithContext(r.logger, "genre lookup failed", "genre_lookup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check tmdb.api_key and network access"),
				logging.String(logging.FieldImpact, "genres will be recorded as "+r.opts.UnknownGenre))
			return
		}
		for _, genre := range resp.Genres {
			r.genres[genre.ID] = genre.Name
		}
		r.logger.Debug("loaded genre table", logging.Int("genre_count", len(r.genres)))
	})
	return r.genres
}

// Lookup resolves query to the first matching catalog entry.
func (r *Resolver) Lookup(ctx context.Context, query string) (Descriptor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Descriptor{}, ErrEmptyQuery
	}
	logger := r.logger.With(logging.String(logging.FieldQuery, query))

	resp, err := r.catalog.SearchTV(ctx, query)
	if err != nil {
		logging.WarnWithContext(logger, "catalog search failed", "search_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "series reported as not found"))
		return Descriptor{}, &unavailableError{err: err}
	}
	if resp == nil || len(resp.Results) == 0 {
		logger.Info("catalog search returned no results")
		return Descriptor{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	// First result wins; the catalog's own ranking is the only ranking.
	hit := resp.Results[0]
	genres := r.ResolveGenres(ctx)

	desc := Descriptor{
		CatalogID:     hit.ID,
		Title:         pickTitle(hit, query),
		Year:          extractYear(hit.FirstAirDate),
		Genres:        r.genreNames(genres, hit.GenreIDs),
		PosterURL:     r.posterURL(hit.PosterPath),
		SeasonCount:   hit.NumberOfSeasons,
		CatalogRating: hit.VoteAverage,

		OriginalLanguage: strings.TrimSpace(hit.OriginalLanguage),
	}

	details, err := r.catalog.GetTVDetails(ctx, hit.ID)
	if err != nil {
		logging.WarnWithContext(logger, "catalog details lookup failed", "details_lookup_failed",
			logging.Int64(logging.FieldCatalogID, hit.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "episode count left empty"))
	} else if details != nil {
		desc.EpisodeCount = details.NumberOfEpisodes
	}

	logger.Debug("resolved series",
		logging.Int64(logging.FieldCatalogID, desc.CatalogID),
		logging.String("title", desc.Title),
		logging.String("year", desc.Year),
		logging.Float64("catalog_rating", desc.CatalogRating))
	return desc, nil
}

func (r *Resolver) genreNames(table map[int64]string, ids []int64) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := table[id]
		if !ok || strings.TrimSpace(name) == "" {
			name = r.opts.UnknownGenre
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func (r *Resolver) posterURL(path *string) string {
	if path == nil || strings.TrimSpace(*path) == "" {
		return ""
	}
	p := strings.TrimSpace(*path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return r.opts.PosterBaseURL + "/" + r.opts.PosterSize + p
}

func pickTitle(hit tmdb.SearchResult, query string) string {
	for _, candidate := range []string{hit.OriginalName, hit.Name, query} {
		if title := strings.TrimSpace(candidate); title != "" {
			return title
		}
	}
	return query
}

// extractYear keeps the leading four characters of a TMDB date when they are
// all digits.
func extractYear(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	year := date[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year
}
