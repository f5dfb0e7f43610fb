package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"seriestrack/internal/fileutil"
	"seriestrack/internal/logging"
	"seriestrack/internal/series"
)

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"

	defaultLockTimeout = 10 * time.Second
	lockRetryDelay     = 25 * time.Millisecond
	minPrefixLength    = 4
)

// Options selects the store file and backend.
type Options struct {
	Path        string
	Backend     string
	LockTimeout time.Duration
}

// Entry is a record together with its row position in the snapshot it was
// read from.
type Entry struct {
	Position int           `json:"position"`
	Record   series.Record `json:"record"`
}

// Store owns the durable series collection.
type Store struct {
	path        string
	backend     backend
	lockPath    string
	lockTimeout time.Duration
	logger      *slog.Logger
}

// Open prepares a store for path. Nothing is created on disk until the first
// mutation.
func Open(opts Options, logger *slog.Logger) (*Store, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, errors.New("store path required")
	}
	path = filepath.Clean(path)

	var b backend
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendCSV:
		b = csvBackend{path: path}
	case BackendSQLite:
		b = sqliteBackend{path: path}
	default:
		return nil, fmt.Errorf("unsupported store backend %q", opts.Backend)
	}

	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	return &Store{
		path:        path,
		backend:     b,
		lockPath:    path + ".lock",
		lockTimeout: timeout,
		logger:      logging.NewComponentLogger(logger, "store"),
	}, nil
}

// Path returns the store file location.
func (s *Store) Path() string {
	return s.path
}

// Append adds rec at the end of the store. Text fields are trimmed and a
// record without an ID gets one; the returned entry holds what was stored.
func (s *Store) Append(ctx context.Context, rec series.Record) (Entry, error) {
	rec = rec.Normalized()
	if rec.ID == "" {
		rec.ID = series.NewID()
	}
	if err := rec.Validate(); err != nil {
		return Entry{}, err
	}
	var entry Entry
	err := s.mutate(ctx, func(records []series.Record) ([]series.Record, error) {
		for _, existing := range records {
			if existing.ID == rec.ID {
				return nil, fmt.Errorf("record id %s already exists", rec.ID)
			}
		}
		entry = Entry{Position: len(records), Record: rec}
		return append(records, rec), nil
	})
	if err != nil {
		return Entry{}, err
	}
	s.logger.Info("appended series",
		logging.String(logging.FieldRecordID, rec.ID),
		logging.Int(logging.FieldPosition, entry.Position),
		logging.String("title", rec.Title),
		logging.String("category", rec.Category.String()))
	return entry, nil
}

// All returns every record in store order.
func (s *Store) All(ctx context.Context) ([]Entry, error) {
	records, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(records))
	for i, rec := range records {
		entries[i] = Entry{Position: i, Record: rec}
	}
	return entries, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	records, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// ListByCategory returns the records of one category in store order, each
// tagged with its row position. Use Sort to reorder.
func (s *Store) ListByCategory(ctx context.Context, category series.Category) ([]Entry, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", series.ErrInvalidCategory, category)
	}
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(all))
	for _, entry := range all {
		if entry.Record.Category == category {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// UpdateUserRating sets or clears the personal rating of the record at
// position.
func (s *Store) UpdateUserRating(ctx context.Context, position int, rating *float64) error {
	if err := series.ValidateRating(rating); err != nil {
		return err
	}
	return s.updateAt(ctx, position, func(rec series.Record) (series.Record, error) {
		return rec.WithUserRating(rating)
	})
}

// UpdateUserRatingByID sets or clears the personal rating of the record with
// the given ID.
func (s *Store) UpdateUserRatingByID(ctx context.Context, id string, rating *float64) error {
	if err := series.ValidateRating(rating); err != nil {
		return err
	}
	return s.updateByID(ctx, id, func(rec series.Record) (series.Record, error) {
		return rec.WithUserRating(rating)
	})
}

// UpdateProgress replaces the season/episode marker of the record at
// position.
func (s *Store) UpdateProgress(ctx context.Context, position int, progress series.Progress) error {
	return s.updateAt(ctx, position, func(rec series.Record) (series.Record, error) {
		return rec.WithProgress(progress)
	})
}

// UpdateProgressByID replaces the season/episode marker of the record with
// the given ID.
func (s *Store) UpdateProgressByID(ctx context.Context, id string, progress series.Progress) error {
	return s.updateByID(ctx, id, func(rec series.Record) (series.Record, error) {
		return rec.WithProgress(progress)
	})
}

// Remove deletes the record at position. Later records shift down by one.
func (s *Store) Remove(ctx context.Context, position int) (series.Record, error) {
	var removed series.Record
	err := s.mutate(ctx, func(records []series.Record) ([]series.Record, error) {
		if position < 0 || position >= len(records) {
			return nil, outOfRange(position, len(records))
		}
		removed = records[position]
		return append(records[:position], records[position+1:]...), nil
	})
	if err != nil {
		return series.Record{}, err
	}
	s.logRemoved(removed, position)
	return removed, nil
}

// RemoveByID deletes the record with the given ID.
func (s *Store) RemoveByID(ctx context.Context, id string) (series.Record, error) {
	var (
		removed  series.Record
		position int
	)
	err := s.mutate(ctx, func(records []series.Record) ([]series.Record, error) {
		position = indexOf(records, id)
		if position < 0 {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		removed = records[position]
		return append(records[:position], records[position+1:]...), nil
	})
	if err != nil {
		return series.Record{}, err
	}
	s.logRemoved(removed, position)
	return removed, nil
}

// Resolve turns a user-supplied handle into an entry. A decimal handle is a
// 1-based display number (position+1); anything else, or a number past the
// end of the store, is an ID or a unique ID prefix of at least four
// characters.
func (s *Store) Resolve(ctx context.Context, handle string) (Entry, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return Entry{}, errors.New("record handle required")
	}
	all, err := s.All(ctx)
	if err != nil {
		return Entry{}, err
	}
	// Short IDs can be all digits, so a number outside the store falls back
	// to ID matching when it is long enough to be a prefix.
	var rangeErr error
	if n, err := strconv.Atoi(handle); err == nil {
		if n >= 1 && n <= len(all) {
			return all[n-1], nil
		}
		rangeErr = outOfRange(n-1, len(all))
		if len(handle) < minPrefixLength {
			return Entry{}, rangeErr
		}
	}

	handle = strings.ToLower(handle)
	var matches []Entry
	for _, entry := range all {
		id := strings.ToLower(entry.Record.ID)
		if id == handle {
			return entry, nil
		}
		if len(handle) >= minPrefixLength && strings.HasPrefix(id, handle) {
			matches = append(matches, entry)
		}
	}
	switch len(matches) {
	case 0:
		if rangeErr != nil {
			return Entry{}, rangeErr
		}
		return Entry{}, fmt.Errorf("%w: %s", ErrRecordNotFound, handle)
	case 1:
		return matches[0], nil
	default:
		return Entry{}, fmt.Errorf("%w: %q matches %d records", ErrAmbiguousHandle, handle, len(matches))
	}
}

func (s *Store) updateAt(ctx context.Context, position int, fn func(series.Record) (series.Record, error)) error {
	var updated series.Record
	err := s.mutate(ctx, func(records []series.Record) ([]series.Record, error) {
		if position < 0 || position >= len(records) {
			return nil, outOfRange(position, len(records))
		}
		rec, err := fn(records[position])
		if err != nil {
			return nil, err
		}
		records[position] = rec
		updated = rec
		return records, nil
	})
	if err != nil {
		return err
	}
	s.logUpdated(updated, position)
	return nil
}

func (s *Store) updateByID(ctx context.Context, id string, fn func(series.Record) (series.Record, error)) error {
	var (
		updated  series.Record
		position int
	)
	err := s.mutate(ctx, func(records []series.Record) ([]series.Record, error) {
		position = indexOf(records, id)
		if position < 0 {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		rec, err := fn(records[position])
		if err != nil {
			return nil, err
		}
		records[position] = rec
		updated = rec
		return records, nil
	})
	if err != nil {
		return err
	}
	s.logUpdated(updated, position)
	return nil
}

// mutate runs one load-change-save cycle under the exclusive lock. When fn
// fails nothing is written.
func (s *Store) mutate(ctx context.Context, fn func([]series.Record) ([]series.Record, error)) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	records, _, err := s.backend.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	if err := s.backend.save(ctx, next); err != nil {
		logging.ErrorWithContext(s.logger, "store save failed", "store_save_failed",
			logging.String("path", s.path),
			logging.Int("record_count", len(next)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check free space and permissions on the store directory"))
		return err
	}
	return nil
}

// snapshot reads the store under a shared lock. Rows loaded without an ID
// are given one and written back so handles stay stable across calls.
func (s *Store) snapshot(ctx context.Context) ([]series.Record, error) {
	exists, err := fileutil.Exists(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat store %s: %w", s.path, err)
	}
	if !exists {
		return nil, nil
	}

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	records, assigned, err := s.backend.load(ctx)
	unlock()
	if err != nil {
		return nil, err
	}
	if !assigned {
		return records, nil
	}

	s.logger.Info("assigning ids to legacy store rows", logging.String("path", s.path))
	var upgraded []series.Record
	err = s.mutate(ctx, func(current []series.Record) ([]series.Record, error) {
		upgraded = current
		return current, nil
	})
	if err != nil {
		return nil, fmt.Errorf("persist record ids: %w", err)
	}
	return upgraded, nil
}

func (s *Store) acquire(ctx context.Context, exclusive bool) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	lock := flock.New(s.lockPath)
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = lock.TryLockContext(lockCtx, lockRetryDelay)
	} else {
		ok, err = lock.TryRLockContext(lockCtx, lockRetryDelay)
	}
	if err != nil || !ok {
		if err == nil {
			err = errors.New("lock not acquired")
		}
		return nil, fmt.Errorf("lock store %s: %w", s.path, err)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Debug("release store lock failed", logging.Error(err))
		}
	}, nil
}

func (s *Store) logUpdated(rec series.Record, position int) {
	s.logger.Info("updated series",
		logging.String(logging.FieldRecordID, rec.ID),
		logging.Int(logging.FieldPosition, position),
		logging.Float64("user_rating", rec.UserRating),
		logging.String("season", rec.Season()),
		logging.String("episode", rec.Episode()))
}

func (s *Store) logRemoved(rec series.Record, position int) {
	s.logger.Info("removed series",
		logging.String(logging.FieldRecordID, rec.ID),
		logging.Int(logging.FieldPosition, position),
		logging.String("title", rec.Title))
}

func indexOf(records []series.Record, id string) int {
	id = strings.TrimSpace(id)
	for i, rec := range records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func outOfRange(position, size int) error {
	return fmt.Errorf("%w: %d (store holds %d records)", ErrOutOfRange, position, size)
}
