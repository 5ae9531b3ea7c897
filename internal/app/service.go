package app

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/jaminalder/codex-othello/internal/domain"
    "github.com/jaminalder/codex-othello/internal/store"
    "go.uber.org/zap"
)

// Errors exposed by the service layer.
var (
    ErrNotFound         = errors.New("game not found")
    ErrGameOver         = errors.New("game over")
    ErrInvalidPlacement = errors.New("not a legal move")
    ErrNoStore          = errors.New("no snapshot store configured")
)

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID   string
    Game *domain.Game
    // LastMove is the most recent placement, or -1 before the first one.
    LastMove domain.Position
    // LastPasses counts the automatic passes that followed LastMove.
    LastPasses int
    Created    time.Time
    Updated    time.Time
}

func (gs *GameState) clone() *GameState {
    cp := *gs
    cp.Game = gs.Game.Clone()
    return &cp
}

type subscriber struct {
    mu     sync.Mutex
    ch     chan []byte
    closed bool
}

func (s *subscriber) close() {
    s.mu.Lock()
    defer s.mu.Unlock()
    if !s.closed {
        s.closed = true
        close(s.ch)
    }
}

// trySend delivers without blocking. It reports false when the buffer is
// full; sends to a closed subscriber are discarded.
func (s *subscriber) trySend(b []byte) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.closed {
        return true
    }
    select {
    case s.ch <- b:
        return true
    default:
        return false
    }
}

// Service manages games and subscribers.
type Service struct {
    mu     sync.Mutex
    games  map[string]*GameState
    subs   map[string]map[*subscriber]struct{}
    render func(GameState) []byte
    store  store.Store
    log    *zap.Logger
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService() *Service { return NewServiceWithRenderer(func(gs GameState) []byte { return nil }) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
    if renderer == nil {
        renderer = func(gs GameState) []byte { return nil }
    }
    return &Service{
        games:  make(map[string]*GameState),
        subs:   make(map[string]map[*subscriber]struct{}),
        render: renderer,
        log:    zap.NewNop(),
    }
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// SetStore attaches the snapshot store used by Save and Restore.
func (s *Service) SetStore(st store.Store) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.store = st
}

// SetLogger replaces the logger; nil disables logging.
func (s *Service) SetLogger(l *zap.Logger) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if l == nil {
        l = zap.NewNop()
    }
    s.log = l
}

func newState(id string, g *domain.Game) *GameState {
    now := time.Now()
    return &GameState{ID: id, Game: g, LastMove: -1, Created: now, Updated: now}
}

// CreateGame creates and registers a new game in the opening position.
func (s *Service) CreateGame() (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs := newState(uuid.NewString(), domain.New())
    s.games[gs.ID] = gs
    s.log.Info("game created", zap.String("game_id", gs.ID))
    return gs.clone(), nil
}

// Import registers a game rebuilt from snap under a fresh ID.
func (s *Service) Import(snap domain.Snapshot) (*GameState, error) {
    g, err := domain.FromSnapshot(snap)
    if err != nil {
        return nil, err
    }
    gs := newState(uuid.NewString(), g)
    gs.LastPasses = g.ResolvePasses()

    s.mu.Lock()
    defer s.mu.Unlock()
    s.games[gs.ID] = gs
    s.log.Info("game imported", zap.String("game_id", gs.ID), zap.Int("pieces", len(snap.Pieces)))
    return gs.clone(), nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    return gs.clone(), true
}

// Snapshot returns the persisted form of a game.
func (s *Service) Snapshot(id string) (domain.Snapshot, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return domain.Snapshot{}, ErrNotFound
    }
    return domain.SnapshotOf(gs.Game), nil
}

// PlayCommand translates a move such as "d3" and plays it.
func (s *Service) PlayCommand(id, text string) (*GameState, error) {
    pos, err := domain.TranslateCommand(text)
    if err != nil {
        return nil, err
    }
    return s.Play(id, pos)
}

// Play applies a placement for the side to move, resolves any automatic
// passes that follow, and broadcasts the new state.
func (s *Service) Play(id string, pos domain.Position) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if gs.Game.IsOver() {
        s.mu.Unlock()
        return nil, ErrGameOver
    }
    mover := gs.Game.Turn()
    if !gs.Game.PlacePiece(pos) {
        s.mu.Unlock()
        return nil, fmt.Errorf("%w: %v", ErrInvalidPlacement, pos)
    }
    gs.LastMove = pos
    gs.LastPasses = gs.Game.ResolvePasses()
    gs.Updated = time.Now()
    s.log.Debug("piece placed",
        zap.String("game_id", id),
        zap.Stringer("color", mover),
        zap.Stringer("position", pos),
        zap.Int("passes", gs.LastPasses),
    )
    if gs.Game.IsOver() {
        s.log.Info("game over",
            zap.String("game_id", id),
            zap.Stringer("victor", gs.Game.Victor()),
            zap.Int("dark", gs.Game.DarkCount()),
            zap.Int("light", gs.Game.LightCount()),
        )
    }
    return s.publishLocked(id, gs), nil
}

// Save writes the game's snapshot to the configured store.
func (s *Service) Save(ctx context.Context, id string) error {
    s.mu.Lock()
    st := s.store
    gs, ok := s.games[id]
    var snap domain.Snapshot
    if ok {
        snap = domain.SnapshotOf(gs.Game)
    }
    s.mu.Unlock()
    if !ok {
        return ErrNotFound
    }
    if st == nil {
        return ErrNoStore
    }
    if err := st.Save(ctx, id, snap); err != nil {
        s.log.Warn("save failed", zap.String("game_id", id), zap.Error(err))
        return fmt.Errorf("save %s: %w", id, err)
    }
    s.log.Info("game saved", zap.String("game_id", id))
    return nil
}

// Restore replaces the in-memory game with the stored snapshot under the
// same ID. The live game is left alone when loading fails.
func (s *Service) Restore(ctx context.Context, id string) (*GameState, error) {
    s.mu.Lock()
    st := s.store
    s.mu.Unlock()
    if st == nil {
        return nil, ErrNoStore
    }
    snap, err := st.Load(ctx, id)
    if err != nil {
        if errors.Is(err, store.ErrNotFound) {
            return nil, ErrNotFound
        }
        return nil, fmt.Errorf("restore %s: %w", id, err)
    }
    g, err := domain.FromSnapshot(snap)
    if err != nil {
        return nil, fmt.Errorf("restore %s: %w", id, err)
    }

    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        gs = newState(id, g)
        s.games[id] = gs
    } else {
        gs.Game = g
        gs.LastMove = -1
    }
    gs.LastPasses = g.ResolvePasses()
    gs.Updated = time.Now()
    s.log.Info("game restored", zap.String("game_id", id))
    return s.publishLocked(id, gs), nil
}

// publishLocked snapshots gs, releases s.mu and fans the rendered payload
// out to subscribers. Slow subscribers are dropped.
func (s *Service) publishLocked(id string, gs *GameState) *GameState {
    cp := gs.clone()
    subs := s.copySubsLocked(id)
    payload := s.render(*cp)
    s.mu.Unlock()

    var toDrop []*subscriber
    for sub := range subs {
        if !sub.trySend(payload) {
            sub.close()
            toDrop = append(toDrop, sub)
        }
    }
    if len(toDrop) > 0 {
        s.mu.Lock()
        for _, sub := range toDrop {
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
        }
        s.mu.Unlock()
    }
    return cp
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func. For an unknown game the channel is already closed.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        ch := make(chan []byte)
        close(ch)
        return ch, func() {}
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}
