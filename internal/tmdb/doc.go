// Package tmdb provides the minimal TMDB API client used to enrich tracked
// series.
//
// It authenticates requests with an api_key query parameter and exposes the
// three TV endpoints the resolver needs: the genre table, title search, and
// show details. Non-200 responses surface as *StatusError so callers can tell
// a catalog outage from an empty result. Options allow tests to supply custom
// HTTP clients without modifying production code.
package tmdb
