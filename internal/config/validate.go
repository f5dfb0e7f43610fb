package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey reports that no TMDB API key was configured.
var ErrMissingAPIKey = errors.New("tmdb.api_key is required")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("%w. Set API_KEY env var or edit %s (create with 'seriestrack config init')", ErrMissingAPIKey, defaultPath)
	}
	if !strings.HasPrefix(c.TMDB.BaseURL, "http://") && !strings.HasPrefix(c.TMDB.BaseURL, "https://") {
		return fmt.Errorf("tmdb.base_url must be an http(s) URL, got %q", c.TMDB.BaseURL)
	}
	if !strings.HasPrefix(c.TMDB.ImageBaseURL, "http://") && !strings.HasPrefix(c.TMDB.ImageBaseURL, "https://") {
		return fmt.Errorf("tmdb.image_base_url must be an http(s) URL, got %q", c.TMDB.ImageBaseURL)
	}
	return nil
}

func (c *Config) validateStore() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path must be set")
	}
	switch c.Store.Backend {
	case BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendCSV, BackendSQLite, c.Store.Backend)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
