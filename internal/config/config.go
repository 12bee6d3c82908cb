// Copyright 2025 The Catalyst Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the service configuration.
//
// Configuration is merged from three sources, lowest priority first:
// built-in defaults, an optional config.yaml (searched in ., ./config and
// /etc/catalyst), and CATALYST_-prefixed environment variables where dots
// become underscores (webhook.secret → CATALYST_WEBHOOK_SECRET).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	GitHub  GitHubConfig  `mapstructure:"github"`
	Cluster ClusterConfig `mapstructure:"cluster"`
	Names   NamesConfig   `mapstructure:"names"`
	Store   StoreConfig   `mapstructure:"store"`
	Janitor JanitorConfig `mapstructure:"janitor"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// WebhookConfig contains GitHub webhook settings. An empty secret rejects
// every delivery, so the webhook is effectively off until one is set.
type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}

// GitHubConfig contains GitHub API settings. Without a token the API
// integrations (commit statuses, branch pinning, janitor) stay off.
type GitHubConfig struct {
	Token string `mapstructure:"token"`
}

// ClusterConfig selects the workload cluster.
type ClusterConfig struct {
	Name       string `mapstructure:"name"`
	Kubeconfig string `mapstructure:"kubeconfig"`
	Context    string `mapstructure:"context"`
}

// NamesConfig tunes memorable environment name generation.
type NamesConfig struct {
	Separator  string `mapstructure:"separator"`
	MinNumber  int    `mapstructure:"min_number"`
	MaxNumber  int    `mapstructure:"max_number"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// StoreConfig locates the project store fixture.
type StoreConfig struct {
	ProjectsFile string `mapstructure:"projects_file"`
}

// JanitorConfig controls the preview namespace sweeper.
type JanitorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Load reads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/catalyst")

	v.SetEnvPrefix("catalyst")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// The config file is optional; defaults and env vars suffice.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format %q must be json or console", c.Log.Format)
	}
	if c.Janitor.Enabled && c.GitHub.Token == "" {
		return fmt.Errorf("janitor.enabled requires github.token, the sweeper asks GitHub for pull request state")
	}
	if c.Janitor.Enabled && c.Janitor.Interval <= 0 {
		return fmt.Errorf("janitor.interval %v must be positive", c.Janitor.Interval)
	}
	if c.Names.MaxNumber != 0 && c.Names.MaxNumber <= c.Names.MinNumber {
		return fmt.Errorf("names.max_number %d must exceed names.min_number %d", c.Names.MaxNumber, c.Names.MinNumber)
	}
	return nil
}

// setDefaults registers every key so environment overrides reach Unmarshal
// even when the key is absent from the config file.
func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")

	// Webhook
	v.SetDefault("webhook.secret", "")

	// GitHub
	v.SetDefault("github.token", "")

	// Cluster
	v.SetDefault("cluster.name", "default")
	v.SetDefault("cluster.kubeconfig", "")
	v.SetDefault("cluster.context", "")

	// Names
	v.SetDefault("names.separator", "-")
	v.SetDefault("names.min_number", 10)
	v.SetDefault("names.max_number", 100)
	v.SetDefault("names.max_retries", 5)

	// Store
	v.SetDefault("store.projects_file", "")

	// Janitor
	v.SetDefault("janitor.enabled", false)
	v.SetDefault("janitor.interval", "30m")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
