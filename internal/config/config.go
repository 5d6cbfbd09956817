// Package config loads and manages doctalk configuration.
// Configuration source priority (highest to lowest):
// 1. Environment variables (DOCTALK_SERVER)
// 2. Config file path specified via --config flag
// 3. ~/.config/doctalk/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultServer is the hosted backend used when nothing else is configured.
const DefaultServer = "https://contract-analysis-api-production-226b.up.railway.app"

// QueryConfig bounds the question-answering request.
type QueryConfig struct {
	// TimeoutSeconds caps each dispatch attempt.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxAttempts is the total number of attempts per question.
	MaxAttempts int `yaml:"max_attempts"`

	// RetryBackoffSeconds is the fixed wait between a failed attempt and its retry.
	RetryBackoffSeconds int `yaml:"retry_backoff_seconds"`
}

// UploadConfig bounds the document upload request.
type UploadConfig struct {
	// TimeoutSeconds caps the upload; past it the document may still be
	// processing server-side.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// ReconcileDelaySeconds is how long to wait before the single
	// post-timeout document-list re-poll.
	ReconcileDelaySeconds int `yaml:"reconcile_delay_seconds"`
}

// Config is the complete doctalk configuration.
type Config struct {
	// Server is the backend base URL.
	Server string `yaml:"server"`

	Query  QueryConfig  `yaml:"query"`
	Upload UploadConfig `yaml:"upload"`

	// HistoryDB overrides the local conversation database path.
	// Empty = ~/.local/share/doctalk/conversations.db.
	HistoryDB string `yaml:"history_db"`
}

// DefaultConfig returns the defaults, matching the hosted client's bounds.
func DefaultConfig() *Config {
	return &Config{
		Server: DefaultServer,
		Query: QueryConfig{
			TimeoutSeconds:      60,
			MaxAttempts:         2,
			RetryBackoffSeconds: 2,
		},
		Upload: UploadConfig{
			TimeoutSeconds:        120,
			ReconcileDelaySeconds: 10,
		},
	}
}

// Load reads the config file and applies environment overrides.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(home, ".config", "doctalk", "config.yaml")
		}
	}

	// Missing file means defaults.
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Timeout returns the per-attempt cap as a duration.
func (q QueryConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSeconds) * time.Second
}

// RetryBackoff returns the inter-attempt wait as a duration.
func (q QueryConfig) RetryBackoff() time.Duration {
	return time.Duration(q.RetryBackoffSeconds) * time.Second
}

// Timeout returns the upload cap as a duration.
func (u UploadConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// ReconcileDelay returns the re-poll wait as a duration.
func (u UploadConfig) ReconcileDelay() time.Duration {
	return time.Duration(u.ReconcileDelaySeconds) * time.Second
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCTALK_SERVER"); v != "" {
		cfg.Server = v
	}
}
