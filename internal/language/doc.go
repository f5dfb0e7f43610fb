// Package language normalizes the language tags sent to TMDB and renders
// catalog language codes for display.
package language
