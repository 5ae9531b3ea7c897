// Package store persists game snapshots.
package store

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "github.com/jaminalder/codex-othello/internal/domain"
)

// Errors returned by stores.
var (
    ErrNotFound  = errors.New("snapshot not found")
    ErrInvalidID = errors.New("invalid game id")
)

// Store saves and loads snapshots by game ID.
type Store interface {
    Save(ctx context.Context, id string, snap domain.Snapshot) error
    Load(ctx context.Context, id string) (domain.Snapshot, error)
}

// checkID rejects anything that is not a UUID, which also keeps file names
// confined to the store directory.
func checkID(id string) error {
    if err := uuid.Validate(id); err != nil {
        return ErrInvalidID
    }
    return nil
}
