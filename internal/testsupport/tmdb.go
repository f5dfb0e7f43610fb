package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// TMDBShow is one series served by FakeTMDB.
type TMDBShow struct {
	ID           int64
	Name         string
	OriginalName string
	FirstAirDate string
	VoteAverage  float64
	GenreIDs     []int64
	PosterPath   string
	Episodes     int
	Language     string
}

// FakeTMDB is an in-process stand-in for the TMDB TV endpoints.
type FakeTMDB struct {
	Server *httptest.Server
	Shows  []TMDBShow
	Genres map[int64]string

	mu       sync.Mutex
	requests []string
}

// NewFakeTMDB starts a server that answers search, details and genre
// requests from shows and genres. It is closed when the test ends.
func NewFakeTMDB(t testing.TB, genres map[int64]string, shows ...TMDBShow) *FakeTMDB {
	t.Helper()

	f := &FakeTMDB{Shows: shows, Genres: genres}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the server base URL.
func (f *FakeTMDB) URL() string {
	return f.Server.URL
}

// Requests returns the request paths seen so far.
func (f *FakeTMDB) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeTMDB) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	f.mu.Unlock()

	if r.URL.Query().Get("api_key") == "" {
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/search/tv":
		query := strings.ToLower(r.URL.Query().Get("query"))
		results := []map[string]any{}
		for _, show := range f.Shows {
			if strings.Contains(strings.ToLower(show.Name), query) || strings.Contains(strings.ToLower(show.OriginalName), query) {
				results = append(results, map[string]any{
					"id":                show.ID,
					"name":              show.Name,
					"original_name":     show.OriginalName,
					"first_air_date":    show.FirstAirDate,
					"vote_average":      show.VoteAverage,
					"genre_ids":         show.GenreIDs,
					"poster_path":       show.PosterPath,
					"original_language": show.Language,
				})
			}
		}
		writeJSON(w, map[string]any{"page": 1, "results": results, "total_results": len(results)})
	case r.URL.Path == "/genre/tv/list":
		genres := []map[string]any{}
		for id, name := range f.Genres {
			genres = append(genres, map[string]any{"id": id, "name": name})
		}
		writeJSON(w, map[string]any{"genres": genres})
	case strings.HasPrefix(r.URL.Path, "/tv/"):
		id := strings.TrimPrefix(r.URL.Path, "/tv/")
		for _, show := range f.Shows {
			if id == jsonNumber(show.ID) {
				writeJSON(w, map[string]any{
					"id":                 show.ID,
					"name":               show.Name,
					"number_of_episodes": show.Episodes,
				})
				return
			}
		}
		http.NotFound(w, r)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func jsonNumber(v int64) string {
	data, _ := json.Marshal(v)
	return string(data)
}
