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


// Package config loads costar settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/poiesic/costar/catalog"
	"github.com/poiesic/costar/ingestion"
	"github.com/poiesic/costar/storage"
	"github.com/poiesic/costar/storage/relational"
)

// DefaultPath is where the CLI looks for the configuration file.
const DefaultPath = "config.toml"

// Backend names a graph store implementation.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendBadger   Backend = "badger"
)

// Config holds every setting the CLI needs.
type Config struct {
	// AccessToken is the catalog API bearer token.
	AccessToken string `toml:"access_token"`

	// BaseURL overrides the catalog API root.
	BaseURL string `toml:"base_url"`

	// RequestsPerSecond caps the catalog request rate. Zero disables limiting.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// RequestTimeout bounds each catalog request, e.g. "30s".
	RequestTimeout Duration `toml:"request_timeout"`

	// Backend selects the store: postgres, sqlite or badger.
	Backend Backend `toml:"backend"`

	// ConnectionString is a postgres DSN, a sqlite file path or a badger directory.
	ConnectionString string `toml:"connection_string"`

	// MaxConnections bounds the postgres connection pool.
	MaxConnections int `toml:"max_connections"`

	// MoviePath is the works dump used by load and by crawl when Import is set.
	MoviePath string `toml:"movie_path"`

	// PersonPath is the contributors dump.
	PersonPath string `toml:"person_path"`

	// Import makes crawl reset the store and load the dumps first.
	Import bool `toml:"import"`

	// TaskCount is the number of partitions and concurrent workers.
	TaskCount int `toml:"task_count"`

	// ChannelSize is the progress channel capacity.
	ChannelSize int `toml:"channel_size"`

	// ReportInterval is the number of contributors between progress milestones.
	ReportInterval int `toml:"report_interval"`

	// ChunkSize is the number of rows per bulk write.
	ChunkSize int `toml:"chunk_size"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a Config with defaults for everything but credentials and paths.
func Default() *Config {
	catalogDefaults := catalog.DefaultConfig()
	return &Config{
		BaseURL:           catalogDefaults.BaseURL,
		RequestsPerSecond: catalogDefaults.RequestsPerSecond,
		RequestTimeout:    Duration{catalogDefaults.Timeout},
		Backend:           BackendPostgres,
		MaxConnections:    relational.DefaultMaxConnections,
		TaskCount:         ingestion.DefaultTaskCount,
		ChannelSize:       ingestion.DefaultChannelSize,
		ReportInterval:    ingestion.DefaultReportInterval,
		ChunkSize:         storage.DefaultChunkSize,
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on which command runs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres, BackendSQLite, BackendBadger:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.ConnectionString == "" {
		return errors.New("config: connection_string is required")
	}
	if c.TaskCount < 1 {
		return errors.New("config: task_count must be at least 1")
	}
	if c.ChannelSize < 0 {
		return errors.New("config: channel_size must not be negative")
	}
	if c.ReportInterval < 1 {
		return errors.New("config: report_interval must be at least 1")
	}
	if c.ChunkSize < 1 {
		return errors.New("config: chunk_size must be at least 1")
	}
	if c.MaxConnections < 1 {
		return errors.New("config: max_connections must be at least 1")
	}
	if c.Import && (c.MoviePath == "" || c.PersonPath == "") {
		return errors.New("config: import requires movie_path and person_path")
	}
	return nil
}

// Catalog returns the catalog client configuration.
func (c *Config) Catalog() *catalog.Config {
	return catalog.NewConfig(
		catalog.WithBaseURL(c.BaseURL),
		catalog.WithAccessToken(c.AccessToken),
		catalog.WithRequestsPerSecond(c.RequestsPerSecond),
		catalog.WithTimeout(c.RequestTimeout.Duration),
	)
}
