// Package config provides unified configuration for the trace event
// database: where archived snapshots land, whether the optional S3
// mirror is enabled, and query-engine defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the full configuration for a tracedb-inspect process.
type Config struct {
	// DataDir is the base directory for local snapshot output.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Snapshot controls the storage-snapshot interface.
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	// Query holds defaults for the query engine CLI surface.
	Query QueryConfig `json:"query" yaml:"query"`
}

// SnapshotConfig configures where archived recordings land.
type SnapshotConfig struct {
	// Dir is the local snapshot directory, resolved under DataDir when
	// empty and created by EnsureDirectories. tracedb-inspect writes
	// snapshots to its -snapshot-dir flag, not to Dir.
	Dir string `json:"dir" yaml:"dir"`

	// S3 optionally mirrors every local snapshot to a bucket; off by
	// default.
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config mirrors internal/snapshot.S3Config in config-file shape.
type S3Config struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	Bucket       string `json:"bucket" yaml:"bucket"`
	Region       string `json:"region" yaml:"region"`
	Endpoint     string `json:"endpoint" yaml:"endpoint"`
	UsePathStyle bool   `json:"use_path_style" yaml:"use_path_style"`
	Prefix       string `json:"prefix" yaml:"prefix"`
}

// QueryConfig holds defaults for the query-engine CLI surface.
type QueryConfig struct {
	// DefaultFormat is the dump format used when a caller does not
	// request one explicitly ("csv" is the only format implemented).
	DefaultFormat string `json:"default_format" yaml:"default_format"`
}

// DefaultConfig returns the default configuration for local use.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data/tracedb",
		Snapshot: SnapshotConfig{
			S3: S3Config{Region: "us-east-1"},
		},
		Query: QueryConfig{
			DefaultFormat: "csv",
		},
	}
}

// Resolve fills in directory defaults derived from DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data/tracedb"
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = filepath.Join(c.DataDir, "snapshots")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Snapshot.S3.Enabled && c.Snapshot.S3.Bucket == "" {
		return fmt.Errorf("snapshot.s3.bucket is required when snapshot.s3.enabled is true")
	}
	switch c.Query.DefaultFormat {
	case "", "csv":
		// valid
	default:
		return fmt.Errorf("invalid query.default_format: %s (only csv is implemented)", c.Query.DefaultFormat)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv applies TRACEDB_-prefixed environment variable
// overrides onto cfg, first loading a .env file at envPath if present.
// A missing .env file is not an error.
func LoadFromEnv(cfg *Config, envPath string) {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	if v := os.Getenv("TRACEDB_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TRACEDB_SNAPSHOT_DIR"); v != "" {
		cfg.Snapshot.Dir = v
	}
	if v := os.Getenv("TRACEDB_S3_ENABLED"); v != "" {
		cfg.Snapshot.S3.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("TRACEDB_S3_BUCKET"); v != "" {
		cfg.Snapshot.S3.Bucket = v
	}
	if v := os.Getenv("TRACEDB_S3_REGION"); v != "" {
		cfg.Snapshot.S3.Region = v
	}
	if v := os.Getenv("TRACEDB_S3_ENDPOINT"); v != "" {
		cfg.Snapshot.S3.Endpoint = v
	}
	if v := os.Getenv("TRACEDB_QUERY_DEFAULT_FORMAT"); v != "" {
		cfg.Query.DefaultFormat = v
	}
}

// EnsureDirectories creates all directories the configuration names.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.Snapshot.Dir}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
