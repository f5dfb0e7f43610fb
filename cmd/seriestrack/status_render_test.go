package main

import (
	"bytes"
	"strings"
	"testing"

	"seriestrack/internal/series"
)

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("Added", statusOK, "Dark", false)
	if plain != "Added:     [OK] Dark" {
		t.Fatalf("plain = %q", plain)
	}
	colored := renderStatusLine("Removed", statusWarn, "Dark", true)
	if !strings.HasPrefix(colored, ansiYellow) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("colored = %q", colored)
	}
	if got := renderStatusLine("Note", statusInfo, "", false); got != "Note:      [INFO]" {
		t.Fatalf("empty message = %q", got)
	}
}

func TestShouldColorizeNonTTY(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestFormatProgress(t *testing.T) {
	if got := formatProgress(recordWithProgress("2", "")); got != "S2 E-" {
		t.Fatalf("got %q", got)
	}
	if got := formatProgress(recordWithProgress("", "")); got != emptyCell {
		t.Fatalf("got %q", got)
	}
}

func recordWithProgress(season, episode string) series.Record {
	return series.Record{
		Title:    "Andor",
		Category: series.CategoryWatching,
		Progress: &series.Progress{Season: season, Episode: episode},
	}
}
