package config

const (
	defaultConfigPath         = "~/.config/seriestrack/config.toml"
	defaultStoreFile          = "series_db.csv"
	defaultStoreBackend       = BackendCSV
	defaultLockTimeoutSeconds = 10
	defaultTMDBLanguage       = "en-US"
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL   = "https://image.tmdb.org/t/p"
	defaultTMDBPosterSize     = "w500"
	defaultTMDBTimeoutSeconds = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "warn"
)

// Store backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			ImageBaseURL:   defaultTMDBImageBaseURL,
			PosterSize:     defaultTMDBPosterSize,
			TimeoutSeconds: defaultTMDBTimeoutSeconds,
		},
		Store: Store{
			Path:               defaultStorePath(),
			Backend:            defaultStoreBackend,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
