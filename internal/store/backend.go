package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"seriestrack/internal/fileutil"
	"seriestrack/internal/series"
)

// backend reads and rewrites the full snapshot. Implementations never patch
// rows in place.
type backend interface {
	load(ctx context.Context) (records []series.Record, assigned bool, err error)
	save(ctx context.Context, records []series.Record) error
}

type csvBackend struct {
	path string
}

func (b csvBackend) load(context.Context) ([]series.Record, bool, error) {
	file, err := os.Open(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open store %s: %w", b.path, err)
	}
	defer file.Close()

	records, assigned, err := ReadCSV(file)
	if err != nil {
		return nil, false, fmt.Errorf("read store %s: %w", b.path, err)
	}
	return records, assigned, nil
}

func (b csvBackend) save(_ context.Context, records []series.Record) error {
	err := fileutil.WriteAtomic(b.path, 0o644, func(w io.Writer) error {
		return WriteCSV(w, records)
	})
	if err != nil {
		return fmt.Errorf("write store %s: %w", b.path, err)
	}
	return nil
}
