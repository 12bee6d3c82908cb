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

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Ensure no env vars interfere
	os.Unsetenv("CATALYST_SERVER_PORT")
	os.Unsetenv("CATALYST_WEBHOOK_SECRET")
	os.Unsetenv("CATALYST_GITHUB_TOKEN")
	os.Unsetenv("CATALYST_JANITOR_ENABLED")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Server defaults
	if cfg.Server.Address != "0.0.0.0" {
		t.Errorf("Server.Address = %q, want 0.0.0.0", cfg.Server.Address)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}

	// Credentials default to empty and must be provided explicitly
	if cfg.Webhook.Secret != "" {
		t.Errorf("Webhook.Secret = %q, want empty", cfg.Webhook.Secret)
	}
	if cfg.GitHub.Token != "" {
		t.Errorf("GitHub.Token = %q, want empty", cfg.GitHub.Token)
	}

	// Cluster defaults
	if cfg.Cluster.Name != "default" {
		t.Errorf("Cluster.Name = %q, want default", cfg.Cluster.Name)
	}

	// Name generator defaults
	if cfg.Names.Separator != "-" {
		t.Errorf("Names.Separator = %q, want -", cfg.Names.Separator)
	}
	if cfg.Names.MinNumber != 10 || cfg.Names.MaxNumber != 100 {
		t.Errorf("Names number range = [%d, %d), want [10, 100)", cfg.Names.MinNumber, cfg.Names.MaxNumber)
	}
	if cfg.Names.MaxRetries != 5 {
		t.Errorf("Names.MaxRetries = %d, want 5", cfg.Names.MaxRetries)
	}

	// Janitor defaults
	if cfg.Janitor.Enabled {
		t.Error("Janitor.Enabled = true, want disabled by default")
	}
	if cfg.Janitor.Interval != 30*time.Minute {
		t.Errorf("Janitor.Interval = %v, want 30m", cfg.Janitor.Interval)
	}

	// Log defaults
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CATALYST_SERVER_PORT", "9100")
	t.Setenv("CATALYST_WEBHOOK_SECRET", "hook-secret")
	t.Setenv("CATALYST_GITHUB_TOKEN", "github_pat_x")
	t.Setenv("CATALYST_JANITOR_ENABLED", "true")
	t.Setenv("CATALYST_JANITOR_INTERVAL", "5m")
	t.Setenv("CATALYST_NAMES_MAX_RETRIES", "9")
	t.Setenv("CATALYST_LOG_FORMAT", "console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Webhook.Secret != "hook-secret" {
		t.Errorf("Webhook.Secret = %q, want hook-secret", cfg.Webhook.Secret)
	}
	if cfg.GitHub.Token != "github_pat_x" {
		t.Errorf("GitHub.Token = %q, want github_pat_x", cfg.GitHub.Token)
	}
	if !cfg.Janitor.Enabled {
		t.Error("Janitor.Enabled = false, want true")
	}
	if cfg.Janitor.Interval != 5*time.Minute {
		t.Errorf("Janitor.Interval = %v, want 5m", cfg.Janitor.Interval)
	}
	if cfg.Names.MaxRetries != 9 {
		t.Errorf("Names.MaxRetries = %d, want 9", cfg.Names.MaxRetries)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want console", cfg.Log.Format)
	}
}

func TestLoad_JanitorRequiresToken(t *testing.T) {
	t.Setenv("CATALYST_JANITOR_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted an enabled janitor without a GitHub token")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Address: "0.0.0.0", Port: 8080, ShutdownTimeout: 10 * time.Second},
			Names:   NamesConfig{Separator: "-", MinNumber: 10, MaxNumber: 100, MaxRetries: 5},
			Janitor: JanitorConfig{Interval: 30 * time.Minute},
			Log:     LogConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "text" }, true},
		{"janitor without token", func(c *Config) { c.Janitor.Enabled = true }, true},
		{"janitor with token", func(c *Config) { c.Janitor.Enabled = true; c.GitHub.Token = "t" }, false},
		{"janitor with zero interval", func(c *Config) {
			c.Janitor.Enabled = true
			c.GitHub.Token = "t"
			c.Janitor.Interval = 0
		}, true},
		{"inverted name range", func(c *Config) { c.Names.MinNumber = 100; c.Names.MaxNumber = 10 }, true},
		{"console format", func(c *Config) { c.Log.Format = "console" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
