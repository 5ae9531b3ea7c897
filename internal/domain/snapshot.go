package domain

import "fmt"

// Snapshot is the persisted form of a Game. Legal moves are derived on load
// and never stored.
type Snapshot struct {
    Turn        string        `json:"turn" yaml:"turn"`
    LightCount  int           `json:"lightCount" yaml:"lightCount"`
    DarkCount   int           `json:"darkCount" yaml:"darkCount"`
    PassCounter int           `json:"passCounter" yaml:"passCounter"`
    Pieces      []PieceRecord `json:"pieces" yaml:"pieces"`
}

// PieceRecord is one occupied square in a Snapshot.
type PieceRecord struct {
    Position int    `json:"position" yaml:"position"`
    Color    string `json:"color" yaml:"color"`
}

// SnapshotOf captures g. Pieces are listed by ascending position.
func SnapshotOf(g *Game) Snapshot {
    pieces := g.Pieces()
    recs := make([]PieceRecord, len(pieces))
    for i, p := range pieces {
        recs[i] = PieceRecord{Position: int(p.Position()), Color: p.Color.String()}
    }
    return Snapshot{
        Turn:        g.turn.String(),
        LightCount:  g.light,
        DarkCount:   g.dark,
        PassCounter: g.passes,
        Pieces:      recs,
    }
}

// FromSnapshot rebuilds a Game from s.
func FromSnapshot(s Snapshot) (*Game, error) {
    turn, err := ParseColor(s.Turn)
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
    }
    pieces := make([]Piece, 0, len(s.Pieces))
    for _, r := range s.Pieces {
        c, err := ParseColor(r.Color)
        if err != nil {
            return nil, fmt.Errorf("%w: piece %d: %v", ErrInvalidSnapshot, r.Position, err)
        }
        pieces = append(pieces, NewPiece(Position(r.Position), c))
    }
    return Load(turn, s.LightCount, s.DarkCount, s.PassCounter, pieces)
}
