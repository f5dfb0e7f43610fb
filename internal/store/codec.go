package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"seriestrack/internal/series"
)

// Header lists the CSV columns in write order.
var Header = []string{
	"id",
	"query",
	"title",
	"year",
	"genres",
	"catalog_rating",
	"user_rating",
	"poster_url",
	"season_count",
	"episode_count",
	"category",
	"current_season",
	"current_episode",
}

// legacyColumns maps the Portuguese column names of older series_db.csv
// files onto the current ones, so those files load unchanged.
var legacyColumns = map[string]string{
	"pesquisa":        "query",
	"titulo_original": "title",
	"ano":             "year",
	"generos":         "genres",
	"nota_tmdb":       "catalog_rating",
	"nota_usuario":    "user_rating",
	"imagem":          "poster_url",
	"n_temporadas":    "season_count",
	"n_episodios":     "episode_count",
	"categoria":       "category",
	"temporada":       "current_season",
	"episodio":        "current_episode",
}

// WriteCSV encodes records with a header row.
func WriteCSV(w io.Writer, records []series.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(encodeRow(rec)); err != nil {
			return fmt.Errorf("write record %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV decodes a store file. Columns are matched by header name; rows
// without an id get a fresh one and assigned reports that this happened.
func ReadCSV(r io.Reader) (records []series.Record, assigned bool, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read header: %v", ErrCorruptStore, err)
	}
	columns := indexColumns(header)
	for _, required := range []string{"title", "category"} {
		if _, ok := columns[required]; !ok {
			return nil, false, fmt.Errorf("%w: missing %q column", ErrCorruptStore, required)
		}
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
		if blankRow(row) {
			continue
		}
		rec, err := decodeRow(columns, row)
		if err != nil {
			return nil, false, fmt.Errorf("%w: line %d: %v", ErrCorruptStore, line, err)
		}
		if rec.ID == "" {
			rec.ID = series.NewID()
			assigned = true
		}
		if err := rec.Validate(); err != nil {
			return nil, false, fmt.Errorf("%w: line %d: %v", ErrCorruptStore, line, err)
		}
		records = append(records, rec)
	}
	return records, assigned, nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if alias, ok := legacyColumns[key]; ok {
			key = alias
		}
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	return columns
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func encodeRow(rec series.Record) []string {
	return []string{
		rec.ID,
		rec.Query,
		rec.Title,
		rec.Year,
		rec.Genres,
		formatFloat(rec.CatalogRating),
		formatFloat(rec.UserRating),
		rec.PosterURL,
		formatInt(rec.SeasonCount),
		formatInt(rec.EpisodeCount),
		string(rec.Category),
		rec.Season(),
		rec.Episode(),
	}
}

func decodeRow(columns map[string]int, row []string) (series.Record, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	category, err := series.ParseCategory(cell("category"))
	if err != nil {
		return series.Record{}, err
	}
	rec := series.Record{
		ID:        cell("id"),
		Query:     cell("query"),
		Title:     cell("title"),
		Genres:    cell("genres"),
		PosterURL: cell("poster_url"),
		Category:  category,
	}
	if rec.Year, err = series.NormalizeYear(cell("year")); err != nil {
		return series.Record{}, fmt.Errorf("year: %w", err)
	}
	if rec.CatalogRating, err = parseFloat(cell("catalog_rating")); err != nil {
		return series.Record{}, fmt.Errorf("catalog_rating: %w", err)
	}
	if rec.UserRating, err = parseFloat(cell("user_rating")); err != nil {
		return series.Record{}, fmt.Errorf("user_rating: %w", err)
	}
	if rec.SeasonCount, err = parseInt(cell("season_count")); err != nil {
		return series.Record{}, fmt.Errorf("season_count: %w", err)
	}
	if rec.EpisodeCount, err = parseInt(cell("episode_count")); err != nil {
		return series.Record{}, fmt.Errorf("episode_count: %w", err)
	}
	if category.TracksProgress() {
		rec.Progress = &series.Progress{Season: cell("current_season"), Episode: cell("current_episode")}
	}
	return rec, nil
}

func nullCell(value string) bool {
	switch strings.ToLower(value) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

func parseFloat(value string) (*float64, error) {
	if nullCell(value) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseInt also accepts integral floats such as "8.0", which spreadsheet
// tools write for integer columns containing blanks.
func parseInt(value string) (*int, error) {
	if nullCell(value) {
		return nil, nil
	}
	if v, err := strconv.Atoi(value); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%q is not an integer", value)
	}
	v := int(f)
	return &v, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
