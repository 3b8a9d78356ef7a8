package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5000, cfg.MutualFastThreshold)
	assert.Equal(t, 8, cfg.QueueCapacityFactor)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
}

func TestLoadHonoursExplicitlySetValues(t *testing.T) {
	v := viper.New()
	v.Set("mutual-fast-threshold", 1000)
	v.Set("timeout", "5s")

	cfg := Load(v)
	assert.Equal(t, 1000, cfg.MutualFastThreshold)
	assert.Equal(t, 8, cfg.QueueCapacityFactor)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}
