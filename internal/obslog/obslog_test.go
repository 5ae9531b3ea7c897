package obslog

import (
    "bytes"
    "encoding/json"
    "strings"
    "testing"

    "github.com/jaminalder/codex-othello/internal/config"
    "go.uber.org/zap"
)

func TestJSONLogger(t *testing.T) {
    var buf bytes.Buffer
    log, err := NewWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)
    if err != nil {
        t.Fatalf("new: %v", err)
    }
    log.Debug("hidden")
    log.Info("game created", zap.String("game_id", "g1"))
    _ = log.Sync()

    lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
    if len(lines) != 1 {
        t.Fatalf("expected one line above debug, got %q", buf.String())
    }
    var entry map[string]any
    if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if entry["msg"] != "game created" || entry["game_id"] != "g1" || entry["level"] != "info" {
        t.Fatalf("unexpected entry %v", entry)
    }
    if _, ok := entry["caller"]; ok {
        t.Fatalf("caller should be off by default")
    }
}

func TestConsoleLoggerWithCaller(t *testing.T) {
    var buf bytes.Buffer
    log, err := NewWriter(config.LogConfig{Level: "debug", Caller: true}, &buf)
    if err != nil {
        t.Fatalf("new: %v", err)
    }
    log.Debug("piece placed")
    _ = log.Sync()
    out := buf.String()
    if !strings.Contains(out, " | DEBUG | ") || !strings.Contains(out, "obslog_test.go") {
        t.Fatalf("unexpected console output %q", out)
    }
}

func TestBadLevel(t *testing.T) {
    if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
        t.Fatalf("expected error for unknown level")
    }
}

func TestWarningAlias(t *testing.T) {
    lvl, err := parseLevel("WARNING")
    if err != nil || lvl.String() != "warn" {
        t.Fatalf("expected warn, got %v %v", lvl, err)
    }
}
