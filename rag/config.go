// Copyright 2025 Poiesic Systems
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


package rag

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the retrieval service client.
type Config struct {
	// BaseURL is the API root of the retrieval service.
	// Example: "http://localhost:8033/api"
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Microservice is an audit tag attached to every request so the
	// retrieval service can attribute traffic.
	Microservice string

	// UserId is the audit identity used consistently for ingest and search.
	UserId string

	// ScoreThreshold is forwarded with search requests; the service may
	// pre-filter low-relevance chunks. Default: 0.25
	ScoreThreshold float32

	// Timeout bounds every HTTP call. Default: 30s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the retrieval service API root.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithMicroservice sets the audit tag.
func WithMicroservice(name string) ConfigOption {
	return func(c *Config) {
		c.Microservice = name
	}
}

// WithUserId sets the audit identity.
func WithUserId(id string) ConfigOption {
	return func(c *Config) {
		c.UserId = id
	}
}

// WithScoreThreshold sets the relevance pre-filter threshold.
func WithScoreThreshold(threshold float32) ConfigOption {
	return func(c *Config) {
		c.ScoreThreshold = threshold
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Microservice:   "campusbuddy",
		UserId:         "5",
		ScoreThreshold: 0.25,
		Timeout:        30 * time.Second,
	}
}

// NewConfig creates a Config with defaults and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("rag config: BaseURL is required")
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		return errors.New("rag config: ScoreThreshold must be between 0 and 1")
	}
	if c.Timeout <= 0 {
		return errors.New("rag config: Timeout must be positive")
	}
	return nil
}
