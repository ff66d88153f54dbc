// Copyright 2026 Depscout Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config types define the configuration structures used throughout
// depscout. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import (
	"time"
)

// Config represents the complete configuration for depscout. It consolidates
// settings from various sources and provides a unified interface for
// accessing configuration values throughout the application.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github"`
	Harvest HarvestConfig `yaml:"harvest"`
}

// GitHubConfig contains GitHub-specific settings: the web origin serving the
// dependents listing and the GraphQL endpoint used by the target preflight
// check. Both are overridable for GitHub Enterprise deployments.
type GitHubConfig struct {
	BaseURL         string `yaml:"base_url"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// HarvestConfig contains settings controlling how listing pages are fetched.
type HarvestConfig struct {
	UserAgent             string `yaml:"user_agent"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	RequestsPerMinute     int    `yaml:"requests_per_minute"`
}

// RequestTimeout returns the page-load timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Harvest.RequestTimeoutSeconds) * time.Second
}

// DefaultConfig returns a Config with sensible defaults suitable for public
// GitHub.com usage.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			BaseURL:         "https://github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Harvest: HarvestConfig{
			UserAgent:             "Mozilla/5.0 (compatible; depscout)",
			RequestTimeoutSeconds: 30,
			RequestsPerMinute:     20,
		},
	}
}
