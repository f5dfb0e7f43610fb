package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"seriestrack/internal/fileutil"
	"seriestrack/internal/series"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS series (
	position        INTEGER PRIMARY KEY,
	id              TEXT NOT NULL UNIQUE,
	query           TEXT NOT NULL,
	title           TEXT NOT NULL,
	year            TEXT NOT NULL,
	genres          TEXT NOT NULL,
	catalog_rating  REAL,
	user_rating     REAL,
	poster_url      TEXT NOT NULL,
	season_count    INTEGER,
	episode_count   INTEGER,
	category        TEXT NOT NULL,
	current_season  TEXT NOT NULL,
	current_episode TEXT NOT NULL
)`

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// sqliteBackend keeps the snapshot in one table ordered by position. The
// database is opened per operation and closed before returning.
type sqliteBackend struct {
	path string
}

func (b sqliteBackend) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := sql.Open("sqlite", b.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = DELETE"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

func (b sqliteBackend) load(ctx context.Context) ([]series.Record, bool, error) {
	exists, err := fileutil.Exists(b.path)
	if err != nil {
		return nil, false, fmt.Errorf("stat store %s: %w", b.path, err)
	}
	if !exists {
		return nil, false, nil
	}
	db, err := b.open(ctx)
	if err != nil {
		return nil, false, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, query, title, year, genres, catalog_rating, user_rating, poster_url,
		       season_count, episode_count, category, current_season, current_episode
		FROM series
		ORDER BY position`)
	if err != nil {
		return nil, false, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var records []series.Record
	for rows.Next() {
		var (
			rec            series.Record
			category       string
			catalogRating  sql.NullFloat64
			userRating     sql.NullFloat64
			seasonCount    sql.NullInt64
			episodeCount   sql.NullInt64
			currentSeason  string
			currentEpisode string
		)
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Title, &rec.Year, &rec.Genres,
			&catalogRating, &userRating, &rec.PosterURL, &seasonCount, &episodeCount,
			&category, &currentSeason, &currentEpisode); err != nil {
			return nil, false, fmt.Errorf("scan series: %w", err)
		}
		if rec.Category, err = series.ParseCategory(category); err != nil {
			return nil, false, fmt.Errorf("%w: record %s: %v", ErrCorruptStore, rec.ID, err)
		}
		rec.CatalogRating = nullFloat(catalogRating)
		rec.UserRating = nullFloat(userRating)
		rec.SeasonCount = nullInt(seasonCount)
		rec.EpisodeCount = nullInt(episodeCount)
		if rec.Category.TracksProgress() {
			rec.Progress = &series.Progress{Season: currentSeason, Episode: currentEpisode}
		}
		if err := rec.Validate(); err != nil {
			return nil, false, fmt.Errorf("%w: record %s: %v", ErrCorruptStore, rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate series: %w", err)
	}
	return records, false, nil
}

func (b sqliteBackend) save(ctx context.Context, records []series.Record) error {
	db, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return retryOnBusy(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM series`); err != nil {
			return fmt.Errorf("clear series: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO series (position, id, query, title, year, genres, catalog_rating, user_rating,
			                    poster_url, season_count, episode_count, category, current_season, current_episode)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, rec := range records {
			if _, err := stmt.ExecContext(ctx, i, rec.ID, rec.Query, rec.Title, rec.Year, rec.Genres,
				sqlFloat(rec.CatalogRating), sqlFloat(rec.UserRating), rec.PosterURL,
				sqlInt(rec.SeasonCount), sqlInt(rec.EpisodeCount), string(rec.Category),
				rec.Season(), rec.Episode()); err != nil {
				return fmt.Errorf("insert series %s: %w", rec.ID, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func sqlFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func sqlInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
