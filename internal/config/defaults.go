package config

const (
	defaultLogDir          = "~/.local/share/tidy/logs"
	defaultDataDir         = "~/.local/share/tidy"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultRecountInterval = 5
	defaultSettleWindowMS  = 500
	defaultNtfyTimeout     = 10
)

// Default returns a Config populated with repository defaults. The watch
// directory is deliberately empty: organizing only begins once the user
// points tidy at a folder.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			DataDir: defaultDataDir,
		},
		Organizer: Organizer{
			ExcludedFiles: []string{"README.txt", "dashboard.png"},
		},
		Watcher: Watcher{
			RecountInterval: defaultRecountInterval,
			SettleWindowMS:  defaultSettleWindowMS,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
			MoveFailures:   true,
			Watch:          true,
			Sweep:          true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
