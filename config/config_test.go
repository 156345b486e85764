package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	assert.NoError(t, err)

	assert.Equal(t, "mock", cfg.Provider)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout)
	assert.Equal(t, 50, cfg.HistoryCap)
	assert.Equal(t, 50, cfg.MessageCap)
	assert.Equal(t, 100, cfg.CompactionThreshold)
	assert.Equal(t, 24, cfg.IdleTimeoutHours)
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("provider", "anthropic")
	v.Set("history_cap", 10)
	v.Set("call_timeout", "5s")

	cfg, err := Load(v, "")
	assert.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, 10, cfg.HistoryCap)
	assert.Equal(t, 5*time.Second, cfg.CallTimeout)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), "/nonexistent/config.yaml")
	assert.Error(t, err)
}
