// Package config loads runtime configuration through viper and holds the
// system prompts shared by the agent capabilities.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Provider selects the completion backend: mock, anthropic or openai.
	Provider string `mapstructure:"provider"`
	// Model is the default completion model id (provider specific).
	Model string `mapstructure:"model"`
	// ClassifierModel is the model used for intent classification.
	ClassifierModel string `mapstructure:"classifier_model"`
	// CallTimeout bounds each completion-service invocation.
	CallTimeout time.Duration `mapstructure:"call_timeout"`

	// HistoryCap bounds per-student interaction history.
	HistoryCap int `mapstructure:"history_cap"`
	// MessageCap bounds per-session message history.
	MessageCap int `mapstructure:"message_cap"`
	// CompactionThreshold triggers memory compaction.
	CompactionThreshold int `mapstructure:"compaction_threshold"`
	// IdleTimeoutHours ends sessions idle longer than this.
	IdleTimeoutHours int `mapstructure:"idle_timeout_hours"`

	// Backend selects the persistence backend: none, file or sqlite.
	Backend string `mapstructure:"backend"`
	// DataDir is the base directory for file persistence and traces.
	DataDir string `mapstructure:"data_dir"`

	// ListenAddr is the HTTP serve address.
	ListenAddr string `mapstructure:"listen_addr"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `mapstructure:"log_level"`
	// LogFormat is json or text.
	LogFormat string `mapstructure:"log_format"`
}

// Load resolves configuration from defaults, an optional config file and
// EDUMENTOR_* environment variables.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetDefault("provider", "mock")
	v.SetDefault("model", "")
	v.SetDefault("classifier_model", "")
	v.SetDefault("call_timeout", 30*time.Second)
	v.SetDefault("history_cap", 50)
	v.SetDefault("message_cap", 50)
	v.SetDefault("compaction_threshold", 100)
	v.SetDefault("idle_timeout_hours", 24)
	v.SetDefault("backend", "file")
	v.SetDefault("data_dir", "data")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetEnvPrefix("EDUMENTOR")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
