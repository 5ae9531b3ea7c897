package store

import (
    "context"
    "errors"
    "fmt"
    "io/fs"
    "os"
    "path/filepath"

    "github.com/jaminalder/codex-othello/internal/domain"
)

// FileStore keeps one snapshot file per game in a directory.
type FileStore struct {
    dir   string
    codec Codec
}

// NewFileStore creates dir if needed. A nil codec means JSON.
func NewFileStore(dir string, codec Codec) (*FileStore, error) {
    if codec == nil {
        codec = JSON
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return nil, fmt.Errorf("create save dir: %w", err)
    }
    return &FileStore{dir: dir, codec: codec}, nil
}

func (s *FileStore) path(id string) string {
    return filepath.Join(s.dir, id+s.codec.Ext())
}

func (s *FileStore) Save(ctx context.Context, id string, snap domain.Snapshot) error {
    if err := checkID(id); err != nil {
        return err
    }
    if err := ctx.Err(); err != nil {
        return err
    }
    return writeFile(s.path(id), s.codec, snap)
}

func (s *FileStore) Load(ctx context.Context, id string) (domain.Snapshot, error) {
    if err := checkID(id); err != nil {
        return domain.Snapshot{}, err
    }
    if err := ctx.Err(); err != nil {
        return domain.Snapshot{}, err
    }
    return readFile(s.path(id), s.codec)
}

// ReadFile loads a snapshot from path, choosing the format by extension.
func ReadFile(path string) (domain.Snapshot, error) {
    return readFile(path, CodecFor(path))
}

// WriteFile saves snap to path, choosing the format by extension.
func WriteFile(path string, snap domain.Snapshot) error {
    return writeFile(path, CodecFor(path), snap)
}

func readFile(path string, codec Codec) (domain.Snapshot, error) {
    f, err := os.Open(path)
    if errors.Is(err, fs.ErrNotExist) {
        return domain.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, path)
    }
    if err != nil {
        return domain.Snapshot{}, fmt.Errorf("open snapshot: %w", err)
    }
    defer f.Close()
    return codec.Decode(f)
}

// writeFile writes to a temp file in the same directory and renames it
// over path, so readers never see a partial snapshot.
func writeFile(path string, codec Codec, snap domain.Snapshot) (err error) {
    tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
    if err != nil {
        return fmt.Errorf("create snapshot: %w", err)
    }
    defer func() {
        if err != nil {
            _ = os.Remove(tmp.Name())
        }
    }()
    if err = codec.Encode(tmp, snap); err != nil {
        _ = tmp.Close()
        return fmt.Errorf("encode snapshot: %w", err)
    }
    if err = tmp.Close(); err != nil {
        return fmt.Errorf("close snapshot: %w", err)
    }
    if err = os.Rename(tmp.Name(), path); err != nil {
        return fmt.Errorf("rename snapshot: %w", err)
    }
    return nil
}
