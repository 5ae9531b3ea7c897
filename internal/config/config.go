// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
    "errors"
    "fmt"
    "io"
    "os"
    "strconv"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"
)

// Store kinds.
const (
    StoreFile     = "file"
    StoreRedis    = "redis"
    StorePostgres = "postgres"
    StoreNone     = "none"
)

type LogConfig struct {
    Level  string `yaml:"level"`
    Format string `yaml:"format"`
    Caller bool   `yaml:"caller"`
}

type AppConfig struct {
    HTTPAddr       string    `yaml:"http_addr"`
    Store          string    `yaml:"store"`
    SaveDir        string    `yaml:"save_dir"`
    SnapshotFormat string    `yaml:"snapshot_format"`
    RedisURL       string    `yaml:"redis_url"`
    DatabaseURL    string    `yaml:"database_url"`
    SnapshotTTLSec int       `yaml:"snapshot_ttl_sec"`
    Log            LogConfig `yaml:"log"`
}

// Default returns the settings used when nothing is configured.
func Default() *AppConfig {
    return &AppConfig{
        HTTPAddr:       ":8080",
        Store:          StoreFile,
        SaveDir:        "saves",
        SnapshotFormat: "json",
        SnapshotTTLSec: 24 * 3600,
        Log:            LogConfig{Level: "info", Format: "console"},
    }
}

// SnapshotTTL is the Redis expiry for saved games.
func (c *AppConfig) SnapshotTTL() time.Duration {
    return time.Duration(c.SnapshotTTLSec) * time.Second
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*AppConfig, error) {
    cfg := Default()
    if strings.TrimSpace(path) != "" {
        f, err := os.Open(path)
        if err != nil {
            return nil, fmt.Errorf("open config: %w", err)
        }
        defer f.Close()
        if err := decode(f, cfg); err != nil {
            return nil, fmt.Errorf("parse config %s: %w", path, err)
        }
    }
    applyEnv(cfg)
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func decode(r io.Reader, cfg *AppConfig) error {
    dec := yaml.NewDecoder(r)
    dec.KnownFields(true)
    if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
        return err
    }
    return nil
}

func applyEnv(cfg *AppConfig) {
    setString(&cfg.HTTPAddr, "OTHELLO_HTTP_ADDR")
    setString(&cfg.Store, "OTHELLO_STORE")
    setString(&cfg.SaveDir, "OTHELLO_SAVE_DIR")
    setString(&cfg.SnapshotFormat, "OTHELLO_SNAPSHOT_FORMAT")
    setString(&cfg.RedisURL, "REDIS_URL")
    setString(&cfg.DatabaseURL, "DATABASE_URL")
    if v := strings.TrimSpace(os.Getenv("OTHELLO_SNAPSHOT_TTL")); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            cfg.SnapshotTTLSec = n
        }
    }
    setString(&cfg.Log.Level, "LOG_LEVEL")
    setString(&cfg.Log.Format, "LOG_FORMAT")
    if v := strings.TrimSpace(os.Getenv("LOG_CALLER")); v != "" {
        if b, err := strconv.ParseBool(v); err == nil {
            cfg.Log.Caller = b
        }
    }
}

func setString(dst *string, key string) {
    if v := strings.TrimSpace(os.Getenv(key)); v != "" {
        *dst = v
    }
}

// Validate rejects unknown store kinds and formats, and backends missing
// their connection URL.
func (c *AppConfig) Validate() error {
    c.Store = strings.ToLower(strings.TrimSpace(c.Store))
    c.SnapshotFormat = strings.ToLower(strings.TrimSpace(c.SnapshotFormat))
    switch c.Store {
    case StoreFile:
        if strings.TrimSpace(c.SaveDir) == "" {
            return errors.New("save_dir is required for the file store")
        }
    case StoreRedis:
        if c.RedisURL == "" {
            return errors.New("REDIS_URL is required for the redis store")
        }
    case StorePostgres:
        if c.DatabaseURL == "" {
            return errors.New("DATABASE_URL is required for the postgres store")
        }
    case StoreNone:
    default:
        return fmt.Errorf("unknown store %q", c.Store)
    }
    switch c.SnapshotFormat {
    case "json", "yaml":
    default:
        return fmt.Errorf("unknown snapshot format %q", c.SnapshotFormat)
    }
    if c.SnapshotTTLSec <= 0 {
        return errors.New("snapshot_ttl_sec must be positive")
    }
    if strings.TrimSpace(c.HTTPAddr) == "" {
        return errors.New("http_addr is required")
    }
    return nil
}
