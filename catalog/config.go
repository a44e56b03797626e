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


package catalog

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Config holds configuration for catalog clients.
type Config struct {
	// BaseURL is the API root all request paths are appended to.
	BaseURL string

	// AccessToken is sent as a bearer token on every request.
	AccessToken string

	// RequestsPerSecond caps the steady request rate shared by all callers.
	// Zero disables limiting.
	// Default: 40
	RequestsPerSecond float64

	// Timeout bounds each HTTP request.
	// Default: 30s
	Timeout time.Duration

	// MaxPages stops pagination early. Zero follows total_pages to the end.
	MaxPages int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the API root.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithAccessToken sets the bearer token.
func WithAccessToken(token string) ConfigOption {
	return func(c *Config) {
		c.AccessToken = token
	}
}

// WithRequestsPerSecond sets the request rate limit.
func WithRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxPages caps how many pages a paginated listing fetches.
func WithMaxPages(pages int) ConfigOption {
	return func(c *Config) {
		c.MaxPages = pages
	}
}

// DefaultConfig returns a Config pointing at the public TMDB API.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		RequestsPerSecond: 40,
		Timeout:           30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.AccessToken == "" {
		return ErrAccessTokenRequired
	}
	if c.BaseURL == "" {
		return errors.New("catalog config: BaseURL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return errors.New("catalog config: BaseURL is not a valid URL")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("catalog config: RequestsPerSecond must not be negative")
	}
	if c.Timeout <= 0 {
		return errors.New("catalog config: Timeout must be positive")
	}
	if c.MaxPages < 0 {
		return errors.New("catalog config: MaxPages must not be negative")
	}
	return nil
}
