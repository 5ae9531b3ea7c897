package store

import (
    "context"
    "errors"
    "os"
    "testing"

    "github.com/google/go-cmp/cmp"
    "github.com/google/uuid"
)

// Runs only against a real database, e.g.
// OTHELLO_TEST_DATABASE_URL=postgres://localhost/othello_test?sslmode=disable
func TestPostgresStoreRoundTrip(t *testing.T) {
    url := os.Getenv("OTHELLO_TEST_DATABASE_URL")
    if url == "" {
        t.Skip("OTHELLO_TEST_DATABASE_URL not set")
    }
    ctx := context.Background()
    s, err := OpenPostgres(ctx, url)
    if err != nil {
        t.Fatalf("OpenPostgres: %v", err)
    }
    defer s.Close()
    if err := s.EnsureSchema(ctx); err != nil {
        t.Fatalf("EnsureSchema: %v", err)
    }
    id := uuid.NewString()
    if _, err := s.Load(ctx, id); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
    want := sampleSnapshot()
    if err := s.Save(ctx, id, want); err != nil {
        t.Fatalf("Save: %v", err)
    }
    got, err := s.Load(ctx, id)
    if err != nil {
        t.Fatalf("Load: %v", err)
    }
    if diff := cmp.Diff(want, got); diff != "" {
        t.Fatalf("mismatch (-want +got):\n%s", diff)
    }
}

func TestOpenPostgresRequiresURL(t *testing.T) {
    if _, err := OpenPostgres(context.Background(), " "); err == nil {
        t.Fatalf("expected error for empty URL")
    }
}
