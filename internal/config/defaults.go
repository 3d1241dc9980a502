package config

const (
	defaultDataDir        = "~/.local/share/werscore"
	defaultEmptyReference = EmptyReferenceAbort
	defaultWorkers        = 1
	defaultHistoryEnabled = true
	defaultHistoryLimit   = 20
	defaultLogFormat      = "console"
	defaultLogLevel       = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Scoring: Scoring{
			EmptyReference: defaultEmptyReference,
			Workers:        defaultWorkers,
		},
		History: History{
			Enabled:   defaultHistoryEnabled,
			ListLimit: defaultHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
