package main

import (
	"strconv"
	"strings"

	"seriestrack/internal/language"
	"seriestrack/internal/resolver"
	"seriestrack/internal/series"
	"seriestrack/internal/store"
)

const (
	shortIDLength = 8
	emptyCell     = "-"
)

// recordView is the JSON shape of a listed record. Number is the 1-based
// handle accepted by rate, progress and remove.
type recordView struct {
	Number int `json:"number"`
	series.Record
}

func recordViews(entries []store.Entry) []recordView {
	views := make([]recordView, len(entries))
	for i, entry := range entries {
		views[i] = recordView{Number: entry.Position + 1, Record: entry.Record}
	}
	return views
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return emptyCell
	}
	return value
}

func formatCount(v *int) string {
	if v == nil {
		return emptyCell
	}
	return strconv.Itoa(*v)
}

func formatCatalogRating(v *float64) string {
	if v == nil {
		return emptyCell
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func formatProgress(rec series.Record) string {
	if rec.Progress == nil {
		return ""
	}
	season, episode := rec.Season(), rec.Episode()
	if season == "" && episode == "" {
		return emptyCell
	}
	return "S" + orDash(season) + " E" + orDash(episode)
}

// entriesTable renders entries. The category column only appears when the
// listing mixes categories; the progress column only when some entry
// tracks progress.
func entriesTable(entries []store.Entry, showCategory bool) string {
	showProgress := false
	for _, entry := range entries {
		if entry.Record.Category.TracksProgress() {
			showProgress = true
			break
		}
	}

	headers := []string{"#", "Title", "Year", "Genres", "TMDB", "Rating"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight}
	if showCategory {
		headers = append(headers, "Category")
		aligns = append(aligns, alignLeft)
	}
	if showProgress {
		headers = append(headers, "Progress")
		aligns = append(aligns, alignLeft)
	}
	headers = append(headers, "ID")
	aligns = append(aligns, alignLeft)

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rec := entry.Record
		row := []string{
			strconv.Itoa(entry.Position + 1),
			rec.Title,
			orDash(rec.Year),
			orDash(rec.Genres),
			formatCatalogRating(rec.CatalogRating),
			series.FormatRating(rec.UserRating, emptyCell),
		}
		if showCategory {
			row = append(row, rec.Category.String())
		}
		if showProgress {
			row = append(row, formatProgress(rec))
		}
		row = append(row, shortID(rec.ID))
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns, 40)
}

func descriptorLines(desc resolver.Descriptor) [][2]string {
	return [][2]string{
		{"Title", desc.Title},
		{"Year", orDash(desc.Year)},
		{"Genres", orDash(desc.Genres)},
		{"TMDB rating", formatCatalogRating(desc.CatalogRating)},
		{"Seasons", formatCount(desc.SeasonCount)},
		{"Episodes", formatCount(desc.EpisodeCount)},
		{"Language", language.DisplayName(desc.OriginalLanguage)},
		{"Poster", orDash(desc.PosterURL)},
		{"TMDB id", strconv.FormatInt(desc.CatalogID, 10)},
	}
}
