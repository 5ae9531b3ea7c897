package domain

type scanKind uint8

const (
    // scanNone: the walk hit the mover's own piece, or an empty square with
    // nothing to capture.
    scanNone scanKind = iota
    // scanBoundary: the walk left the board.
    scanBoundary
    // scanCapture: an empty target flanks at least one opposing piece.
    scanCapture
)

type scanResult struct {
    kind     scanKind
    target   Position
    captures []*Piece
}

// scan walks from anchor in direction d over opposing pieces. It owns its
// cursor, so nothing leaks between directions.
func (g *Game) scan(anchor Position, d Direction, mover Color) scanResult {
    cur, err := NewCursor(anchor)
    if err != nil {
        return scanResult{kind: scanBoundary}
    }
    var captures []*Piece
    for {
        if err := cur.Step(d); err != nil {
            return scanResult{kind: scanBoundary}
        }
        p, ok := g.board[cur.Current()]
        switch {
        case !ok:
            if len(captures) == 0 {
                return scanResult{kind: scanNone}
            }
            return scanResult{kind: scanCapture, target: cur.Current(), captures: captures}
        case p.Color == mover:
            return scanResult{kind: scanNone}
        default:
            captures = append(captures, p)
        }
    }
}
