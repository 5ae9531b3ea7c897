package main

import (
    "bytes"
    "context"
    "path/filepath"
    "strings"
    "testing"

    "github.com/jaminalder/codex-othello/internal/domain"
    "github.com/jaminalder/codex-othello/internal/store"
)

func clearEnv(t *testing.T) {
    t.Helper()
    for _, k := range []string{"OTHELLO_STORE", "OTHELLO_SAVE_DIR", "OTHELLO_SNAPSHOT_FORMAT", "LOG_LEVEL", "LOG_FORMAT", "LOG_CALLER"} {
        t.Setenv(k, "")
    }
}

func TestPlayLogsPlacements(t *testing.T) {
    clearEnv(t)
    var out, logs bytes.Buffer
    err := play(context.Background(), []string{"-log-level", "debug"}, strings.NewReader("d3\nquit\n"), &out, &logs)
    if err != nil {
        t.Fatalf("play: %v", err)
    }
    if !strings.Contains(out.String(), "Valid move processed.") {
        t.Fatalf("unexpected game output:\n%s", out.String())
    }
    if !strings.Contains(logs.String(), "piece placed") || !strings.Contains(logs.String(), "console") {
        t.Fatalf("expected console debug log, got %q", logs.String())
    }
}

func TestPlayLoadsFinishedGame(t *testing.T) {
    clearEnv(t)
    g := domain.New()
    for i := 0; !g.IsOver(); i++ {
        if i > domain.Squares || !g.PlacePiece(g.Moves()[0]) {
            t.Fatalf("playout failed")
        }
        g.ResolvePasses()
    }
    path := filepath.Join(t.TempDir(), "done.yaml")
    if err := store.WriteFile(path, domain.SnapshotOf(g)); err != nil {
        t.Fatalf("write: %v", err)
    }
    var out, logs bytes.Buffer
    if err := play(context.Background(), []string{"-load", path}, strings.NewReader(""), &out, &logs); err != nil {
        t.Fatalf("play: %v", err)
    }
    if !strings.Contains(out.String(), "The game is over.") {
        t.Fatalf("expected immediate end:\n%s", out.String())
    }
}

func TestPlayInterrupted(t *testing.T) {
    clearEnv(t)
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    var out, logs bytes.Buffer
    if err := play(ctx, nil, strings.NewReader(""), &out, &logs); err != nil {
        t.Fatalf("interrupt should exit cleanly, got %v", err)
    }
}

func TestPlayBadLogLevel(t *testing.T) {
    clearEnv(t)
    var out, logs bytes.Buffer
    if err := play(context.Background(), []string{"-log-level", "loud"}, strings.NewReader(""), &out, &logs); err == nil {
        t.Fatalf("expected error for unknown log level")
    }
}
