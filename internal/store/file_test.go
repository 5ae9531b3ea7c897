package store

import (
    "context"
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/google/go-cmp/cmp"
    "github.com/google/uuid"
    "github.com/jaminalder/codex-othello/internal/domain"
)

func sampleSnapshot() domain.Snapshot {
    g := domain.New()
    g.PlacePiece(19)
    return domain.SnapshotOf(g)
}

func TestFileStoreRoundTrip(t *testing.T) {
    for _, codec := range []Codec{JSON, YAML} {
        dir := t.TempDir()
        s, err := NewFileStore(dir, codec)
        if err != nil {
            t.Fatalf("NewFileStore: %v", err)
        }
        ctx := context.Background()
        id := uuid.NewString()
        want := sampleSnapshot()
        if err := s.Save(ctx, id, want); err != nil {
            t.Fatalf("%s save: %v", codec.Ext(), err)
        }
        if _, err := os.Stat(filepath.Join(dir, id+codec.Ext())); err != nil {
            t.Fatalf("%s: expected snapshot file: %v", codec.Ext(), err)
        }
        got, err := s.Load(ctx, id)
        if err != nil {
            t.Fatalf("%s load: %v", codec.Ext(), err)
        }
        if diff := cmp.Diff(want, got); diff != "" {
            t.Fatalf("%s mismatch (-want +got):\n%s", codec.Ext(), diff)
        }
    }
}

func TestFileStoreOverwrite(t *testing.T) {
    s, _ := NewFileStore(t.TempDir(), nil)
    ctx := context.Background()
    id := uuid.NewString()
    if err := s.Save(ctx, id, domain.SnapshotOf(domain.New())); err != nil {
        t.Fatalf("first save: %v", err)
    }
    want := sampleSnapshot()
    if err := s.Save(ctx, id, want); err != nil {
        t.Fatalf("second save: %v", err)
    }
    got, err := s.Load(ctx, id)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if diff := cmp.Diff(want, got); diff != "" {
        t.Fatalf("expected latest snapshot (-want +got):\n%s", diff)
    }
}

func TestFileStoreMissing(t *testing.T) {
    s, _ := NewFileStore(t.TempDir(), nil)
    if _, err := s.Load(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}

func TestFileStoreRejectsBadID(t *testing.T) {
    s, _ := NewFileStore(t.TempDir(), nil)
    ctx := context.Background()
    for _, id := range []string{"", "../escape", "not-a-uuid"} {
        if err := s.Save(ctx, id, sampleSnapshot()); !errors.Is(err, ErrInvalidID) {
            t.Fatalf("Save(%q): expected ErrInvalidID, got %v", id, err)
        }
        if _, err := s.Load(ctx, id); !errors.Is(err, ErrInvalidID) {
            t.Fatalf("Load(%q): expected ErrInvalidID, got %v", id, err)
        }
    }
}

func TestReadFileMalformed(t *testing.T) {
    path := filepath.Join(t.TempDir(), "broken.json")
    if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    if _, err := ReadFile(path); !errors.Is(err, domain.ErrInvalidSnapshot) {
        t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
    }
}

func TestWriteFileByExtension(t *testing.T) {
    dir := t.TempDir()
    yamlPath := filepath.Join(dir, "game.yml")
    if err := WriteFile(yamlPath, sampleSnapshot()); err != nil {
        t.Fatalf("WriteFile: %v", err)
    }
    raw, err := os.ReadFile(yamlPath)
    if err != nil {
        t.Fatalf("read: %v", err)
    }
    if !strings.Contains(string(raw), "passCounter: 0") {
        t.Fatalf("expected YAML output, got %q", raw)
    }
    got, err := ReadFile(yamlPath)
    if err != nil {
        t.Fatalf("ReadFile: %v", err)
    }
    if diff := cmp.Diff(sampleSnapshot(), got); diff != "" {
        t.Fatalf("mismatch (-want +got):\n%s", diff)
    }
    entries, _ := os.ReadDir(dir)
    if len(entries) != 1 {
        t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
    }
}

func TestWriteFileMissingDir(t *testing.T) {
    path := filepath.Join(t.TempDir(), "missing", "game.json")
    if err := WriteFile(path, sampleSnapshot()); err == nil {
        t.Fatalf("expected error writing into a missing directory")
    }
}

func TestCodecByName(t *testing.T) {
    for name, want := range map[string]Codec{"": JSON, "json": JSON, "YAML": YAML, "yml": YAML} {
        got, err := CodecByName(name)
        if err != nil || got != want {
            t.Fatalf("CodecByName(%q) = %v, %v", name, got, err)
        }
    }
    if _, err := CodecByName("xml"); err == nil {
        t.Fatalf("expected error for unknown format")
    }
}
