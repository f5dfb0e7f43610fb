package resolver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"seriestrack/internal/logging"
	"seriestrack/internal/resolver"
	"seriestrack/internal/series"
	"seriestrack/internal/tmdb"
)

type fakeCatalog struct {
	search     *tmdb.SearchResponse
	searchErr  error
	details    *tmdb.TVDetails
	detailsErr error
	genres     *tmdb.GenreResponse
	genresErr  error

	genreCalls   atomic.Int32
	detailsCalls atomic.Int32
	lastDetailID int64
}

func (f *fakeCatalog) SearchTV(context.Context, string) (*tmdb.SearchResponse, error) {
	return f.search, f.searchErr
}

func (f *fakeCatalog) GetTVDetails(_ context.Context, id int64) (*tmdb.TVDetails, error) {
	f.detailsCalls.Add(1)
	f.lastDetailID = id
	return f.details, f.detailsErr
}

func (f *fakeCatalog) GenreList(context.Context) (*tmdb.GenreResponse, error) {
	f.genreCalls.Add(1)
	return f.genres, f.genresErr
}

func strPtr(s string) *string     { return &s }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func severanceCatalog() *fakeCatalog {
	return &fakeCatalog{
		search: &tmdb.SearchResponse{Results: []tmdb.SearchResult{
			{
				ID:           95396,
				Name:         "Ruptura",
				OriginalName: "Severance",
				FirstAirDate: "2022-02-17",
				VoteAverage:  floatPtr(8.4),
				GenreIDs:     []int64{18, 9648, 4242},
				PosterPath:   strPtr("/poster.jpg"),
			},
			{ID: 1, OriginalName: "Severance (2006 film)"},
		}},
		details: &tmdb.TVDetails{ID: 95396, NumberOfEpisodes: intPtr(19), NumberOfSeasons: intPtr(2)},
		genres: &tmdb.GenreResponse{Genres: []tmdb.Genre{
			{ID: 18, Name: "Drama"},
			{ID: 9648, Name: "Mystery"},
		}},
	}
}

func TestLookupBuildsDescriptorFromFirstResult(t *testing.T) {
	catalog := severanceCatalog()
	r := resolver.New(catalog, resolver.Options{}, logging.NewNop())

	desc, err := r.Lookup(context.Background(), "severance")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	// First result wins even when later results exist.
	if desc.CatalogID != 95396 || desc.Title != "Severance" {
		t.Fatalf("expected first result, got %+v", desc)
	}
	if desc.Year != "2022" {
		t.Fatalf("unexpected year %q", desc.Year)
	}
	if desc.Genres != "Drama, Mystery, Unknown" {
		t.Fatalf("unexpected genres %q", desc.Genres)
	}
	if desc.PosterURL != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Fatalf("unexpected poster url %q", desc.PosterURL)
	}
	if desc.CatalogRating == nil || *desc.CatalogRating != 8.4 {
		t.Fatalf("unexpected catalog rating %v", desc.CatalogRating)
	}
	if desc.EpisodeCount == nil || *desc.EpisodeCount != 19 {
		t.Fatalf("unexpected episode count %v", desc.EpisodeCount)
	}
	// Season count comes from the search payload, which lacks it here, even
	// though the details payload carries one.
	if desc.SeasonCount != nil {
		t.Fatalf("expected season count from search payload (nil), got %d", *desc.SeasonCount)
	}
	if catalog.lastDetailID != 95396 {
		t.Fatalf("details requested for %d", catalog.lastDetailID)
	}
}

func TestLookupSeasonCountFromSearchPayload(t *testing.T) {
	catalog := severanceCatalog()
	catalog.search.Results[0].NumberOfSeasons = intPtr(2)
	r := resolver.New(catalog, resolver.Options{}, nil)

	desc, err := r.Lookup(context.Background(), "severance")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if desc.SeasonCount == nil || *desc.SeasonCount != 2 {
		t.Fatalf("unexpected season count %v", desc.SeasonCount)
	}
}

func TestLookupNoResultsIsNotFound(t *testing.T) {
	catalog := severanceCatalog()
	catalog.search = &tmdb.SearchResponse{}
	r := resolver.New(catalog, resolver.Options{}, nil)

	_, err := r.Lookup(context.Background(), "zzzz")
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, resolver.ErrCatalogUnavailable) {
		t.Fatal("empty result must not be reported as catalog outage")
	}
	if catalog.detailsCalls.Load() != 0 {
		t.Fatal("details must not be requested without a hit")
	}
}

func TestLookupSearchFailureIsNotFoundAndUnavailable(t *testing.T) {
	catalog := severanceCatalog()
	catalog.searchErr = &tmdb.StatusError{Endpoint: "tv search", StatusCode: http.StatusServiceUnavailable}
	r := resolver.New(catalog, resolver.Options{}, nil)

	_, err := r.Lookup(context.Background(), "severance")
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, resolver.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
	if !tmdb.IsStatus(err, http.StatusServiceUnavailable) {
		t.Fatalf("expected wrapped status error, got %v", err)
	}
}

func TestLookupDetailsFailureKeepsDescriptor(t *testing.T) {
	catalog := severanceCatalog()
	catalog.details = nil
	catalog.detailsErr = errors.New("boom")
	r := resolver.New(catalog, resolver.Options{}, nil)

	desc, err := r.Lookup(context.Background(), "severance")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if desc.EpisodeCount != nil {
		t.Fatalf("expected nil episode count, got %d", *desc.EpisodeCount)
	}
	if desc.Title != "Severance" || desc.Genres == "" {
		t.Fatalf("descriptor should keep search fields: %+v", desc)
	}
}

func TestLookupWithoutPosterPath(t *testing.T) {
	for _, poster := range []*string{nil, strPtr(""), strPtr("  ")} {
		catalog := severanceCatalog()
		catalog.search.Results[0].PosterPath = poster
		r := resolver.New(catalog, resolver.Options{}, nil)

		desc, err := r.Lookup(context.Background(), "severance")
		if err != nil {
			t.Fatalf("Lookup returned error: %v", err)
		}
		if desc.PosterURL != "" {
			t.Fatalf("expected empty poster url, got %q", desc.PosterURL)
		}
	}
}

func TestLookupPosterURLUsesConfiguredBase(t *testing.T) {
	catalog := severanceCatalog()
	r := resolver.New(catalog, resolver.Options{PosterBaseURL: "https://img.example/t/p/", PosterSize: "original"}, nil)

	desc, err := r.Lookup(context.Background(), "severance")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if desc.PosterURL != "https://img.example/t/p/original/poster.jpg" {
		t.Fatalf("unexpected poster url %q", desc.PosterURL)
	}
}

func TestLookupTitleAndYearFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		result    tmdb.SearchResult
		wantTitle string
		wantYear  string
	}{
		{"original name", tmdb.SearchResult{ID: 1, OriginalName: "Dark", FirstAirDate: "2017-12-01"}, "Dark", "2017"},
		{"localized name", tmdb.SearchResult{ID: 1, Name: "Dark", FirstAirDate: ""}, "Dark", ""},
		{"query fallback", tmdb.SearchResult{ID: 1, FirstAirDate: "20"}, "my query", ""},
		{"non numeric date", tmdb.SearchResult{ID: 1, OriginalName: "X", FirstAirDate: "TBA-01"}, "X", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := severanceCatalog()
			catalog.search = &tmdb.SearchResponse{Results: []tmdb.SearchResult{tt.result}}
			r := resolver.New(catalog, resolver.Options{}, nil)

			desc, err := r.Lookup(context.Background(), "my query")
			if err != nil {
				t.Fatalf("Lookup returned error: %v", err)
			}
			if desc.Title != tt.wantTitle {
				t.Fatalf("title = %q, want %q", desc.Title, tt.wantTitle)
			}
			if desc.Year != tt.wantYear {
				t.Fatalf("year = %q, want %q", desc.Year, tt.wantYear)
			}
			if desc.CatalogRating != nil {
				t.Fatalf("expected nil catalog rating, got %v", *desc.CatalogRating)
			}
		})
	}
}

func TestLookupEmptyQuery(t *testing.T) {
	r := resolver.New(severanceCatalog(), resolver.Options{}, nil)
	if _, err := r.Lookup(context.Background(), "   "); !errors.Is(err, resolver.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestResolveGenresCachedEvenOnFailure(t *testing.T) {
	catalog := severanceCatalog()
	catalog.genres = nil
	catalog.genresErr = errors.New("offline")
	r := resolver.New(catalog, resolver.Options{}, nil)

	for i := 0; i < 3; i++ {
		desc, err := r.Lookup(context.Background(), "severance")
		if err != nil {
			t.Fatalf("Lookup returned error: %v", err)
		}
		if desc.Genres != "Unknown, Unknown, Unknown" {
			t.Fatalf("unexpected genres %q", desc.Genres)
		}
	}
	if got := catalog.genreCalls.Load(); got != 1 {
		t.Fatalf("expected one genre fetch, got %d", got)
	}
	if table := r.ResolveGenres(context.Background()); len(table) != 0 {
		t.Fatalf("expected empty genre table, got %v", table)
	}
}

func TestDescriptorRecord(t *testing.T) {
	desc := resolver.Descriptor{Title: "Severance", Year: "2022", Genres: "Drama"}
	rec, err := desc.Record(" Severance ", series.CategoryWatching, floatPtr(4.5), &series.Progress{Season: "1", Episode: "3"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.ID == "" || rec.Query != "Severance" || rec.Title != "Severance" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Season() != "1" || rec.Episode() != "3" {
		t.Fatalf("unexpected progress %+v", rec.Progress)
	}
	if _, err := desc.Record("x", series.CategoryWatching, floatPtr(0.3), nil); !errors.Is(err, series.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}

func TestLookupAgainstHTTPCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/genre/tv/list":
			_, _ = w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"}]}`))
		case "/search/tv":
			_, _ = w.Write([]byte(`{"results":[{"id":7,"original_name":"The Bear","first_air_date":"2022-06-23","vote_average":8.1,"genre_ids":[18],"poster_path":"/bear.jpg"}]}`))
		case "/tv/7":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("tmdb.New: %v", err)
	}
	r := resolver.New(client, resolver.Options{}, nil)

	desc, err := r.Lookup(context.Background(), "the bear")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if desc.Title != "The Bear" || desc.Genres != "Drama" || desc.EpisodeCount != nil {
		t.Fatalf("unexpected descriptor %+v", desc)
	}
	if len(desc.Year) != 4 || strings.Trim(desc.Year, "0123456789") != "" {
		t.Fatalf("year must be four digits, got %q", desc.Year)
	}
}
