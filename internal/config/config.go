// Package config holds the runtime configuration, backed by viper so every
// value can come from the config file or the environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Source settings.
	SourceBaseURL string
	UserAgent     string

	// Politeness and retry settings.
	MinDelay         time.Duration
	MaxAttempts      int
	RateLimitBackoff time.Duration

	// Job settings.
	JobTimeout    time.Duration
	BulkWorkers   int
	RequireUnique bool

	// Catalog storage. Driver is "sqlite" or "postgres"; DBPath serves
	// sqlite, DatabaseURL serves postgres.
	DBDriver    string
	DBPath      string
	DatabaseURL string

	// Optional task result backend.
	RedisURL  string
	ResultTTL time.Duration

	// Cron spec for the scheduled catalog refresh.
	RefreshSchedule string
}

// SetDefaults registers the default value of every config key.
func SetDefaults() {
	viper.SetDefault("source.baseurl", "https://www.transfermarkt.com")
	viper.SetDefault("source.useragent", "")

	viper.SetDefault("fetch.mindelay", "2s")
	viper.SetDefault("fetch.maxattempts", 3)
	viper.SetDefault("fetch.ratelimitbackoff", "30s")

	viper.SetDefault("jobs.timeout", "2m")
	viper.SetDefault("jobs.workers", 4)
	viper.SetDefault("jobs.requireunique", false)

	viper.SetDefault("db.driver", "sqlite")
	viper.SetDefault("db.path", "./offside.db")
	viper.SetDefault("db.url", "")

	viper.SetDefault("redis.url", "")
	viper.SetDefault("redis.resultttl", "1h")

	viper.SetDefault("refresh.schedule", "@daily")
}

// Load reads the resolved configuration out of viper.
func Load() Config {
	return Config{
		SourceBaseURL: viper.GetString("source.baseurl"),
		UserAgent:     viper.GetString("source.useragent"),

		MinDelay:         viper.GetDuration("fetch.mindelay"),
		MaxAttempts:      viper.GetInt("fetch.maxattempts"),
		RateLimitBackoff: viper.GetDuration("fetch.ratelimitbackoff"),

		JobTimeout:    viper.GetDuration("jobs.timeout"),
		BulkWorkers:   viper.GetInt("jobs.workers"),
		RequireUnique: viper.GetBool("jobs.requireunique"),

		DBDriver:    viper.GetString("db.driver"),
		DBPath:      viper.GetString("db.path"),
		DatabaseURL: viper.GetString("db.url"),

		RedisURL:  viper.GetString("redis.url"),
		ResultTTL: viper.GetDuration("redis.resultttl"),

		RefreshSchedule: viper.GetString("refresh.schedule"),
	}
}
