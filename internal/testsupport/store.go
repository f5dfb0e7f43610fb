package testsupport

import (
	"context"
	"testing"
	"time"

	"seriestrack/internal/config"
	"seriestrack/internal/series"
	"seriestrack/internal/store"
)

// MustOpenStore opens the record store described by cfg.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(store.Options{
		Path:        cfg.Store.Path,
		Backend:     cfg.Store.Backend,
		LockTimeout: time.Duration(cfg.Store.LockTimeoutSeconds) * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	return s
}

// SeedRecord appends a minimal record and returns it with its position.
func SeedRecord(t testing.TB, s *store.Store, title string, category series.Category, progress *series.Progress) store.Entry {
	t.Helper()

	rec, err := series.NewRecord(series.Record{
		Query:    title,
		Title:    title,
		Category: category,
	}, progress)
	if err != nil {
		t.Fatalf("series.NewRecord: %v", err)
	}
	entry, err := s.Append(context.Background(), rec)
	if err != nil {
		t.Fatalf("store.Append: %v", err)
	}
	return entry
}
