package store

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/jaminalder/codex-othello/internal/domain"
    _ "github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS othello_snapshots (
    game_id      TEXT PRIMARY KEY,
    turn         TEXT NOT NULL,
    light_count  INTEGER NOT NULL,
    dark_count   INTEGER NOT NULL,
    pass_counter INTEGER NOT NULL,
    pieces       JSONB NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps one row per game.
type PostgresStore struct {
    db *sql.DB
}

// OpenPostgres connects to databaseURL and pings it.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
    if strings.TrimSpace(databaseURL) == "" {
        return nil, fmt.Errorf("DATABASE_URL is required")
    }
    db, err := sql.Open("postgres", databaseURL)
    if err != nil {
        return nil, err
    }
    db.SetMaxOpenConns(8)
    db.SetMaxIdleConns(4)
    db.SetConnMaxLifetime(30 * time.Minute)
    pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := db.PingContext(pctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return &PostgresStore{db: db}, nil
}

// EnsureSchema creates the snapshot table if it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
    _, err := s.db.ExecContext(ctx, schema)
    return err
}

func (s *PostgresStore) Save(ctx context.Context, id string, snap domain.Snapshot) error {
    if err := checkID(id); err != nil {
        return err
    }
    pieces, err := json.Marshal(snap.Pieces)
    if err != nil {
        return err
    }
    q := `INSERT INTO othello_snapshots (
        game_id, turn, light_count, dark_count, pass_counter, pieces, updated_at
      ) VALUES ($1,$2,$3,$4,$5,$6,$7)
      ON CONFLICT (game_id) DO UPDATE SET
        turn=EXCLUDED.turn,
        light_count=EXCLUDED.light_count,
        dark_count=EXCLUDED.dark_count,
        pass_counter=EXCLUDED.pass_counter,
        pieces=EXCLUDED.pieces,
        updated_at=EXCLUDED.updated_at`
    _, err = s.db.ExecContext(ctx, q, id, snap.Turn, snap.LightCount, snap.DarkCount, snap.PassCounter, string(pieces), time.Now().UTC())
    return err
}

func (s *PostgresStore) Load(ctx context.Context, id string) (domain.Snapshot, error) {
    if err := checkID(id); err != nil {
        return domain.Snapshot{}, err
    }
    var (
        snap   domain.Snapshot
        pieces []byte
    )
    row := s.db.QueryRowContext(ctx,
        `SELECT turn, light_count, dark_count, pass_counter, pieces FROM othello_snapshots WHERE game_id = $1`, id)
    err := row.Scan(&snap.Turn, &snap.LightCount, &snap.DarkCount, &snap.PassCounter, &pieces)
    if errors.Is(err, sql.ErrNoRows) {
        return domain.Snapshot{}, ErrNotFound
    }
    if err != nil {
        return domain.Snapshot{}, err
    }
    if err := json.Unmarshal(pieces, &snap.Pieces); err != nil {
        return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
    }
    return snap, nil
}

func (s *PostgresStore) Close() error {
    if s == nil || s.db == nil {
        return nil
    }
    return s.db.Close()
}
