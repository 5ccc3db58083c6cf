package config

import "time"

// Defaults returns the configuration used when no file is given and the base
// that file values are merged over.
func Defaults() *Config {
	return &Config{
		AWS: AWSConfig{
			OwnerIDs: []string{"self"},
		},
		Schedule: ScheduleConfig{
			Cron: "0 3 * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Job: "snapshot-reclaimer",
		},
		ConfigReload: ReloadConfig{
			Method:         "auto",
			PollInterval:   30 * time.Second,
			DebounceWindow: 500 * time.Millisecond,
		},
	}
}
