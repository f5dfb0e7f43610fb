// Package config loads, normalizes, and validates seriestrack configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the API_KEY (or TMDB_API_KEY)
// environment fallback. A missing API key is a startup error: Load refuses to
// return a config without one, so commands never reach the catalog
// unauthenticated.
package config
