package domain

import (
    "errors"
    "fmt"
    "sort"
)

// Errors returned by domain operations.
var (
    ErrOutOfBounds          = errors.New("out of bounds")
    ErrInvalidCommandFormat = errors.New("invalid command format")
    ErrInvalidSnapshot      = errors.New("invalid snapshot")
)

// Starting squares. d4 and e5 are Light, e4 and d5 are Dark.
const (
    D4 Position = 27
    E4 Position = 28
    D5 Position = 35
    E5 Position = 36
)

// MaxPasses is the pass count at which the match ends.
const MaxPasses = 2

// Game holds the state of one Othello match. It is not safe for
// concurrent use; give each session its own Game.
type Game struct {
    board  map[Position]*Piece
    turn   Color
    legal  map[Position][]*Piece
    passes int
    light  int
    dark   int
    over   bool
}

// New returns a game in the standard opening with Dark to move.
func New() *Game {
    g := &Game{board: make(map[Position]*Piece, Squares), turn: Dark}
    g.put(NewPiece(D4, Light))
    g.put(NewPiece(E4, Dark))
    g.put(NewPiece(D5, Dark))
    g.put(NewPiece(E5, Light))
    g.light, g.dark = 2, 2
    g.computeLegalMoves()
    return g
}

// Load rebuilds a game from persisted state. The counts are taken as given
// and are not checked against pieces. A pass counter of MaxPasses loads a
// finished game.
func Load(turn Color, lightCount, darkCount, passes int, pieces []Piece) (*Game, error) {
    if !turn.Valid() {
        return nil, fmt.Errorf("%w: turn %v", ErrInvalidSnapshot, turn)
    }
    if passes < 0 || passes > MaxPasses {
        return nil, fmt.Errorf("%w: pass counter %d", ErrInvalidSnapshot, passes)
    }
    if lightCount < 0 || darkCount < 0 {
        return nil, fmt.Errorf("%w: negative piece count", ErrInvalidSnapshot)
    }
    g := &Game{
        board:  make(map[Position]*Piece, len(pieces)),
        turn:   turn,
        passes: passes,
        light:  lightCount,
        dark:   darkCount,
        over:   passes == MaxPasses,
    }
    for _, p := range pieces {
        if !p.Position().Valid() {
            return nil, fmt.Errorf("%w: position %d", ErrInvalidSnapshot, int(p.Position()))
        }
        if !p.Color.Valid() {
            return nil, fmt.Errorf("%w: color at %v", ErrInvalidSnapshot, p.Position())
        }
        if _, dup := g.board[p.Position()]; dup {
            return nil, fmt.Errorf("%w: duplicate position %v", ErrInvalidSnapshot, p.Position())
        }
        g.put(p)
    }
    g.computeLegalMoves()
    return g, nil
}

func (g *Game) put(p Piece) {
    cp := p
    g.board[p.Position()] = &cp
}

// Clone returns an independent copy of g.
func (g *Game) Clone() *Game {
    c := &Game{
        board:  make(map[Position]*Piece, len(g.board)),
        turn:   g.turn,
        passes: g.passes,
        light:  g.light,
        dark:   g.dark,
        over:   g.over,
    }
    for _, p := range g.board {
        c.put(*p)
    }
    c.computeLegalMoves()
    return c
}

func (g *Game) Turn() Color     { return g.turn }
func (g *Game) Passes() int     { return g.passes }
func (g *Game) LightCount() int { return g.light }
func (g *Game) DarkCount() int  { return g.dark }
func (g *Game) IsOver() bool    { return g.over }

// Count returns the maintained tally for c.
func (g *Game) Count(c Color) int {
    if c == Light {
        return g.light
    }
    return g.dark
}

// PieceAt returns the piece on p, if any.
func (g *Game) PieceAt(p Position) (Piece, bool) {
    pc, ok := g.board[p]
    if !ok {
        return Piece{}, false
    }
    return *pc, true
}

// Pieces returns the occupied squares ordered by position.
func (g *Game) Pieces() []Piece {
    out := make([]Piece, 0, len(g.board))
    for _, p := range g.board {
        out = append(out, *p)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].pos < out[j].pos })
    return out
}

// LegalMoves returns a copy of the legal-move table: every empty square the
// mover may take, with the pieces that placement would capture.
func (g *Game) LegalMoves() map[Position][]Piece {
    out := make(map[Position][]Piece, len(g.legal))
    for pos, caps := range g.legal {
        list := make([]Piece, len(caps))
        for i, p := range caps {
            list[i] = *p
        }
        out[pos] = list
    }
    return out
}

// Moves returns the legal targets in ascending order.
func (g *Game) Moves() []Position {
    out := make([]Position, 0, len(g.legal))
    for pos := range g.legal {
        out = append(out, pos)
    }
    sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
    return out
}

// IsLegal reports whether p is in the legal-move table.
func (g *Game) IsLegal(p Position) bool {
    _, ok := g.legal[p]
    return ok
}

// PlacePiece plays the mover's disc at p, flips the captured pieces and
// passes the turn. It returns false and changes nothing when p is not a
// legal move.
func (g *Game) PlacePiece(p Position) bool {
    if g.over {
        return false
    }
    caps, ok := g.legal[p]
    if !ok {
        return false
    }
    g.put(NewPiece(p, g.turn))
    for _, c := range caps {
        c.Flip()
    }
    n := len(caps)
    if g.turn == Dark {
        g.dark += n + 1
        g.light -= n
    } else {
        g.light += n + 1
        g.dark -= n
    }
    g.passes = 0
    g.nextTurn()
    return true
}

// CheckAnyValidMoves reports whether the mover has a legal move. When it
// does not, the pass counter is incremented and the turn passes. The
// counter stops at MaxPasses and a finished game is left as is.
func (g *Game) CheckAnyValidMoves() bool {
    if len(g.legal) > 0 {
        return true
    }
    if g.over || g.passes >= MaxPasses {
        return false
    }
    g.passes++
    g.nextTurn()
    return false
}

// AdvanceIfNoMoves is an alias of CheckAnyValidMoves.
func (g *Game) AdvanceIfNoMoves() bool { return g.CheckAnyValidMoves() }

// CheckGameOver marks the game over once both sides have passed in a row.
func (g *Game) CheckGameOver() bool {
    if g.passes >= MaxPasses {
        g.over = true
    }
    return g.over
}

// ResolvePasses applies automatic passes until the mover has a legal move
// or the game ends. It returns the number of passes taken.
func (g *Game) ResolvePasses() int {
    n := 0
    for !g.over {
        if g.CheckAnyValidMoves() {
            break
        }
        n++
        g.CheckGameOver()
    }
    return n
}

// Victor compares the maintained counters.
func (g *Game) Victor() Outcome {
    switch {
    case g.dark > g.light:
        return OutcomeDark
    case g.light > g.dark:
        return OutcomeLight
    default:
        return OutcomeTie
    }
}

// Tally recounts the board. It agrees with the counters for any game built
// by New or by Load with consistent counts.
func (g *Game) Tally() (dark, light int) {
    for _, p := range g.board {
        if p.Color == Dark {
            dark++
        } else {
            light++
        }
    }
    return dark, light
}

func (g *Game) nextTurn() {
    g.turn = g.turn.Opponent()
    g.computeLegalMoves()
}

func (g *Game) computeLegalMoves() {
    g.legal = make(map[Position][]*Piece)
    for pos, p := range g.board {
        if p.Color != g.turn {
            continue
        }
        for _, d := range Directions {
            res := g.scan(pos, d, g.turn)
            if res.kind != scanCapture {
                continue
            }
            g.legal[res.target] = union(g.legal[res.target], res.captures)
        }
    }
}

// union merges add into set, keeping positions unique and ordered.
func union(set, add []*Piece) []*Piece {
    seen := make(map[Position]struct{}, len(set)+len(add))
    for _, p := range set {
        seen[p.pos] = struct{}{}
    }
    for _, p := range add {
        if _, ok := seen[p.pos]; ok {
            continue
        }
        seen[p.pos] = struct{}{}
        set = append(set, p)
    }
    sort.Slice(set, func(i, j int) bool { return set[i].pos < set[j].pos })
    return set
}
