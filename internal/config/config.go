package config

import "time"

type Config struct {
	AWS          AWSConfig      `yaml:"aws"`
	Policy       PolicyConfig   `yaml:"policy"`
	Reclaim      ReclaimConfig  `yaml:"reclaim"`
	Schedule     ScheduleConfig `yaml:"schedule"`
	Logging      LoggingConfig  `yaml:"logging"`
	Metrics      MetricsConfig  `yaml:"metrics"`
	ConfigReload ReloadConfig   `yaml:"configReload"`
}

type AWSConfig struct {
	Region   string   `yaml:"region"`
	Profile  string   `yaml:"profile"`
	Endpoint string   `yaml:"endpoint" validate:"omitempty,url"` // e.g. localstack
	OwnerIDs []string `yaml:"ownerIds" validate:"min=1,dive,required"`
}

type PolicyConfig struct {
	// RequireRunningAttachment also reclaims snapshots whose volume is only
	// attached to instances that are not running. Off keeps the historical
	// "any attachment keeps the snapshot" rule.
	RequireRunningAttachment bool              `yaml:"requireRunningAttachment"`
	ProtectTags              map[string]string `yaml:"protectTags"` // empty value matches any value
	MinAge                   time.Duration     `yaml:"minAge" validate:"gte=0"`
}

type ReclaimConfig struct {
	DryRun     bool `yaml:"dryRun"`
	MaxDeletes int  `yaml:"maxDeletes" validate:"gte=0"` // 0 = unlimited
}

type ScheduleConfig struct {
	Cron       string `yaml:"cron" validate:"required"`
	RunOnStart bool   `yaml:"runOnStart"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayURL" validate:"omitempty,url"`
	Job            string `yaml:"job" validate:"required"`
}

type ReloadConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Method         string        `yaml:"method" validate:"oneof=auto fsnotify poll"`
	PollInterval   time.Duration `yaml:"pollInterval" validate:"gt=0"`
	DebounceWindow time.Duration `yaml:"debounceWindow" validate:"gte=0"`
}
