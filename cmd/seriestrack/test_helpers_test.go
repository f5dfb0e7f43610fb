package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"seriestrack/internal/config"
	"seriestrack/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	tmdb       *testsupport.FakeTMDB
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("API_KEY", "")
	t.Setenv("TMDB_API_KEY", "")

	fake := testsupport.NewFakeTMDB(t,
		map[int64]string{18: "Drama", 9648: "Mystery", 10765: "Sci-Fi & Fantasy", 80: "Crime"},
		testsupport.TMDBShow{
			ID: 95396, Name: "Severance", OriginalName: "Severance", FirstAirDate: "2022-02-17",
			VoteAverage: 8.4, GenreIDs: []int64{18, 9648, 10765}, PosterPath: "/sev.jpg", Episodes: 19,
		},
		testsupport.TMDBShow{
			ID: 70523, Name: "Dark", OriginalName: "Dark", FirstAirDate: "2017-12-01",
			VoteAverage: 8.4, GenreIDs: []int64{80, 18}, PosterPath: "/dark.jpg", Episodes: 26, Language: "de",
		},
		testsupport.TMDBShow{
			ID: 71446, Name: "Money Heist", OriginalName: "La casa de papel", FirstAirDate: "2017-05-02",
			VoteAverage: 8.2, GenreIDs: []int64{80, 18}, Episodes: 41,
		},
	)

	opts = append([]testsupport.ConfigOption{testsupport.WithTMDBBaseURL(fake.URL())}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	return &cliTestEnv{
		cfg:        cfg,
		tmdb:       fake,
		configPath: testsupport.WriteConfig(t, cfg),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (env *cliTestEnv) run(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("seriestrack %s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
