package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/google/go-cmp/cmp"
)

var envKeys = []string{
    "OTHELLO_HTTP_ADDR", "OTHELLO_STORE", "OTHELLO_SAVE_DIR", "OTHELLO_SNAPSHOT_FORMAT",
    "REDIS_URL", "DATABASE_URL", "OTHELLO_SNAPSHOT_TTL", "LOG_LEVEL", "LOG_FORMAT", "LOG_CALLER",
}

func clearEnv(t *testing.T) {
    t.Helper()
    for _, k := range envKeys {
        t.Setenv(k, "")
    }
}

func writeConfig(t *testing.T, body string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "othello.yaml")
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatalf("write config: %v", err)
    }
    return path
}

func TestLoadDefaults(t *testing.T) {
    clearEnv(t)
    cfg, err := Load("")
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if diff := cmp.Diff(Default(), cfg); diff != "" {
        t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
    }
    if cfg.SnapshotTTL() != 24*time.Hour {
        t.Fatalf("unexpected ttl %v", cfg.SnapshotTTL())
    }
}

func TestLoadFileThenEnv(t *testing.T) {
    clearEnv(t)
    path := writeConfig(t, `
http_addr: ":9000"
store: redis
redis_url: redis://localhost:6379/0
snapshot_format: yaml
snapshot_ttl_sec: 60
log:
  level: debug
  format: json
`)
    t.Setenv("OTHELLO_HTTP_ADDR", ":9100")
    t.Setenv("LOG_CALLER", "true")
    t.Setenv("OTHELLO_SNAPSHOT_TTL", "oops")

    cfg, err := Load(path)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    want := &AppConfig{
        HTTPAddr:       ":9100",
        Store:          StoreRedis,
        SaveDir:        "saves",
        SnapshotFormat: "yaml",
        RedisURL:       "redis://localhost:6379/0",
        SnapshotTTLSec: 60,
        Log:            LogConfig{Level: "debug", Format: "json", Caller: true},
    }
    if diff := cmp.Diff(want, cfg); diff != "" {
        t.Fatalf("config mismatch (-want +got):\n%s", diff)
    }
}

func TestLoadEmptyFile(t *testing.T) {
    clearEnv(t)
    if _, err := Load(writeConfig(t, "")); err != nil {
        t.Fatalf("empty file should load defaults: %v", err)
    }
}

func TestLoadErrors(t *testing.T) {
    cases := []struct {
        name string
        body string
        env  map[string]string
    }{
        {name: "unknown field", body: "colour: blue\n"},
        {name: "unknown store", env: map[string]string{"OTHELLO_STORE": "s3"}},
        {name: "redis without url", env: map[string]string{"OTHELLO_STORE": "redis"}},
        {name: "postgres without url", env: map[string]string{"OTHELLO_STORE": "postgres"}},
        {name: "bad format", env: map[string]string{"OTHELLO_SNAPSHOT_FORMAT": "xml"}},
        {name: "empty save dir", body: "save_dir: \"\"\n"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            clearEnv(t)
            for k, v := range tc.env {
                t.Setenv(k, v)
            }
            path := ""
            if tc.body != "" {
                path = writeConfig(t, tc.body)
            }
            if _, err := Load(path); err == nil {
                t.Fatalf("expected error")
            }
        })
    }
}

func TestLoadMissingFile(t *testing.T) {
    clearEnv(t)
    if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
        t.Fatalf("expected error for missing file")
    }
}

func TestStoreNoneNeedsNothing(t *testing.T) {
    clearEnv(t)
    t.Setenv("OTHELLO_STORE", "NONE")
    cfg, err := Load("")
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Store != StoreNone {
        t.Fatalf("expected store normalized to none, got %q", cfg.Store)
    }
}
