package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seriestrack/internal/config"
	"seriestrack/internal/series"
	"seriestrack/internal/store"
	"seriestrack/internal/testsupport"
)

func listJSON(t *testing.T, env *cliTestEnv, args ...string) []recordView {
	t.Helper()
	out := env.run(t, append(append([]string{"list"}, args...), "--json")...)
	var views []recordView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode list output: %v\n%s", err, out)
	}
	return views
}

func TestAddSeveranceEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.run(t, "add", "Severance", "--category", "watching", "--season", "1", "--episode", "3")
	requireContains(t, out, "Added")
	requireContains(t, out, "Severance (2022) to Watching as #1")

	views := listJSON(t, env, "watching")
	if len(views) != 1 {
		t.Fatalf("expected 1 watching record, got %d", len(views))
	}
	rec := views[0].Record
	if rec.Season() != "1" || rec.Episode() != "3" {
		t.Fatalf("progress = %q/%q, want 1/3", rec.Season(), rec.Episode())
	}
	if rec.Genres != "Drama, Mystery, Sci-Fi & Fantasy" {
		t.Fatalf("genres = %q", rec.Genres)
	}
	if rec.PosterURL != "https://image.tmdb.org/t/p/w500/sev.jpg" {
		t.Fatalf("poster = %q", rec.PosterURL)
	}
	if rec.EpisodeCount == nil || *rec.EpisodeCount != 19 {
		t.Fatalf("episode count = %v", rec.EpisodeCount)
	}
	if rec.SeasonCount != nil {
		t.Fatalf("season count should stay empty from search results, got %d", *rec.SeasonCount)
	}
	if rec.Query != "Severance" || views[0].Number != 1 {
		t.Fatalf("unexpected view: %+v", views[0])
	}

	for _, category := range []string{"completed", "watchlist", "abandoned"} {
		out := env.run(t, "list", category)
		requireContains(t, out, "No series in")
	}
}

func TestAddUsesOriginalTitleAndMissingPoster(t *testing.T) {
	env := setupCLITestEnv(t)

	env.run(t, "add", "money", "heist", "-C", "completed", "-r", "4.5")
	views := listJSON(t, env, "completed")
	if len(views) != 1 {
		t.Fatalf("expected 1 record, got %d", len(views))
	}
	rec := views[0].Record
	if rec.Title != "La casa de papel" || rec.Query != "money heist" {
		t.Fatalf("unexpected title/query: %q/%q", rec.Title, rec.Query)
	}
	if rec.PosterURL != "" {
		t.Fatalf("poster should be empty, got %q", rec.PosterURL)
	}
	if rec.UserRating == nil || *rec.UserRating != 4.5 {
		t.Fatalf("user rating = %v", rec.UserRating)
	}
	if rec.Progress != nil {
		t.Fatalf("completed record should not carry progress: %+v", rec.Progress)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	env := setupCLITestEnv(t)

	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown series", args: []string{"add", "Nonexistent Show"}, want: "series not found: Nonexistent Show"},
		{name: "bad category", args: []string{"add", "Dark", "-C", "binging"}, want: "invalid category"},
		{name: "off-grid rating", args: []string{"add", "Dark", "-C", "completed", "-r", "0.3"}, want: "invalid rating"},
		{name: "rated watchlist", args: []string{"add", "Dark", "-C", "watchlist", "-r", "3"}, want: "cannot be rated"},
		{name: "progress on completed", args: []string{"add", "Dark", "-C", "completed", "--season", "2"}, want: "progress only applies"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args, env.configPath)
			if err == nil {
				t.Fatalf("expected error")
			}
			requireContains(t, err.Error(), tc.want)
		})
	}

	if _, err := os.Stat(env.cfg.Store.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("failed adds must not create the store, stat err=%v", err)
	}
}

func TestLookupDoesNotSave(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.run(t, "lookup", "dark")
	requireContains(t, out, "Title:")
	requireContains(t, out, "Dark")
	requireContains(t, out, "Crime, Drama")
	requireContains(t, out, "https://image.tmdb.org/t/p/w500/dark.jpg")
	requireContains(t, out, "German")

	out = env.run(t, "lookup", "dark", "--json")
	var desc map[string]any
	if err := json.Unmarshal([]byte(out), &desc); err != nil {
		t.Fatalf("decode lookup json: %v", err)
	}
	if desc["year"] != "2017" || desc["episode_count"] != float64(26) {
		t.Fatalf("unexpected lookup json: %v", desc)
	}

	if _, err := os.Stat(env.cfg.Store.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("lookup must not create the store, stat err=%v", err)
	}
}

func TestLookupCatalogUnavailable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.tmdb.Server.Close()

	_, _, err := runCLI(t, []string{"lookup", "dark"}, env.configPath)
	if err == nil {
		t.Fatal("expected error")
	}
	requireContains(t, err.Error(), "series not found: dark")
	requireContains(t, err.Error(), "catalog unavailable")
}

func TestRateProgressRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	env.run(t, "add", "Dark", "-C", "completed")
	env.run(t, "add", "Severance", "--season", "1", "--episode", "1")

	out := env.run(t, "rate", "1", "3")
	requireContains(t, out, "Dark: 3")
	if _, _, err := runCLI(t, []string{"rate", "1", "0.3"}, env.configPath); err == nil || !strings.Contains(err.Error(), "invalid rating") {
		t.Fatalf("expected invalid rating error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"rate", "9", "3"}, env.configPath); err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected out of range error, got %v", err)
	}

	views := listJSON(t, env, "completed")
	if got := views[0].Record.UserRating; got == nil || *got != 3.0 {
		t.Fatalf("rating not visible on next read: %v", got)
	}

	out = env.run(t, "progress", "2", "--episode", " 4 ")
	requireContains(t, out, "S1 E4")
	if _, _, err := runCLI(t, []string{"progress", "1", "--season", "2"}, env.configPath); err == nil {
		t.Fatal("expected progress on a completed series to fail")
	}

	sevID := listJSON(t, env, "watching")[0].Record.ID
	out = env.run(t, "rate", sevID, "--clear")
	requireContains(t, out, "Severance: unrated")

	out = env.run(t, "remove", "1")
	requireContains(t, out, "Removed")
	requireContains(t, out, "Dark")

	views = listJSON(t, env)
	if len(views) != 1 || views[0].Record.ID != sevID || views[0].Number != 1 {
		t.Fatalf("unexpected records after remove: %+v", views)
	}
	if views[0].Record.Episode() != "4" || views[0].Record.UserRating != nil {
		t.Fatalf("unexpected severance state: %+v", views[0].Record)
	}
}

func TestListSortsAndRendersTable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.run(t, "add", "Severance", "-C", "completed", "-r", "5")
	env.run(t, "add", "Dark", "-C", "completed", "-r", "4")
	env.run(t, "add", "Money Heist", "-C", "completed")

	views := listJSON(t, env, "completed", "--sort", "title")
	var titles []string
	for _, v := range views {
		titles = append(titles, v.Record.Title)
	}
	if strings.Join(titles, "|") != "Dark|La casa de papel|Severance" {
		t.Fatalf("title order = %v", titles)
	}

	views = listJSON(t, env, "completed", "--sort", "user_rating")
	if views[0].Record.Title != "Dark" || views[2].Record.UserRating != nil {
		t.Fatalf("user rating order wrong: %+v", views)
	}
	if views[0].Number != 2 {
		t.Fatalf("sorted entries must keep their handles, got #%d", views[0].Number)
	}

	out := env.run(t, "list")
	requireContains(t, out, "CATEGORY")
	requireContains(t, out, "La casa de papel")
	requireNotContains(t, out, "PROGRESS")

	if _, _, err := runCLI(t, []string{"list", "--sort", "genres"}, env.configPath); err == nil {
		t.Fatal("expected unknown sort field error")
	}
}

func TestFindAndExport(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSQLiteStore())
	env.run(t, "add", "Severance")
	env.run(t, "add", "Money Heist", "-C", "watchlist")

	out := env.run(t, "find", "heist")
	requireContains(t, out, "La casa de papel")
	requireNotContains(t, out, "Severance")
	out = env.run(t, "find", "zzzz")
	requireContains(t, out, "No series match")

	out = env.run(t, "export")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || lines[0] != strings.Join(store.Header, ",") {
		t.Fatalf("unexpected export:\n%s", out)
	}

	target := filepath.Join(t.TempDir(), "out", "series.csv")
	env.run(t, "export", "--output", target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != out {
		t.Fatalf("file export differs from stdout export")
	}
}

func TestCommandsReadLegacyStore(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, env.cfg.Store.Path,
		"pesquisa,titulo_original,ano,generos,nota_tmdb,nota_usuario,imagem,n_temporadas,n_episodios,categoria,temporada,episodio\n"+
			"dark,Dark,2017.0,\"Crime, Drama\",8.4,4.5,,,26.0,Concluído,,\n")

	views := listJSON(t, env, "completed")
	if len(views) != 1 || views[0].Record.Title != "Dark" {
		t.Fatalf("legacy store not read: %+v", views)
	}
	if views[0].Record.Year != "2017" {
		t.Fatalf("legacy year = %q, want 2017", views[0].Record.Year)
	}

	st := testsupport.MustOpenStore(t, env.cfg)
	all, err := st.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if all[0].Record.ID != views[0].Record.ID {
		t.Fatalf("legacy ids not persisted: %s vs %s", all[0].Record.ID, views[0].Record.ID)
	}
	testsupport.SeedRecord(t, st, "Andor", series.CategoryWatchlist, nil)
	requireContains(t, env.run(t, "list", "watchlist"), "Andor")
}

func TestMissingAPIKeyFailsBeforeCommands(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithTMDBKey(""))

	_, _, err := runCLI(t, []string{"list"}, env.configPath)
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}

	t.Setenv("API_KEY", "from-env")
	if _, _, err := runCLI(t, []string{"list"}, env.configPath); err != nil {
		t.Fatalf("API_KEY env should satisfy config: %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.run(t, "config", "validate")
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Store.Path)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}
