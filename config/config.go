// Package config loads the solver's tunables: the mutual-analysis
// fast/full threshold, the bounded-queue capacity multiplier, and a
// wall-clock timeout, from EUCLIDE_-prefixed environment variables or an
// optional config file, via github.com/spf13/viper (spec.md §4.4/§5/§9).
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the deduction core's runtime tunables.
type Config struct {
	// MutualFastThreshold is the nmoves(A)*nmoves(B) product above which
	// MutualInteractions always degrades to fast (BFS-only) mode.
	MutualFastThreshold int

	// QueueCapacityFactor sizes the fast-mode frontier queue as
	// QueueCapacityFactor*64*64.
	QueueCapacityFactor int

	// Timeout bounds the driver's wall-clock search time; checked only
	// between whole-piece updates (spec.md §5). Zero means unbounded.
	Timeout time.Duration
}

// Default returns the tunables the CLI runs with when given no flags, env
// vars or config file.
func Default() Config {
	return Config{
		MutualFastThreshold: 5000,
		QueueCapacityFactor: 8,
		Timeout:             0,
	}
}

// Load builds a Config from v, falling back to Default for any key v does
// not have set. Callers populate v from flags/env/file before calling Load;
// an empty, freshly-constructed viper.Viper yields Default.
func Load(v *viper.Viper) Config {
	cfg := Default()

	v.SetDefault("mutual-fast-threshold", cfg.MutualFastThreshold)
	v.SetDefault("queue-capacity-factor", cfg.QueueCapacityFactor)
	v.SetDefault("timeout", cfg.Timeout)

	cfg.MutualFastThreshold = v.GetInt("mutual-fast-threshold")
	cfg.QueueCapacityFactor = v.GetInt("queue-capacity-factor")
	cfg.Timeout = v.GetDuration("timeout")

	return cfg
}

// New builds a viper.Viper configured to read EUCLIDE_-prefixed
// environment variables and an optional euclide.{yaml,json,toml} config
// file from the current directory, the way a viper-backed service config
// is typically wired.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("euclide")
	v.AutomaticEnv()
	v.SetConfigName("euclide")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()
	return v
}
