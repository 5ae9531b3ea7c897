package domain

// Piece is a disc on an occupied square. Its position never changes;
// replacing a square's occupant means replacing the Piece.
type Piece struct {
    pos   Position
    Color Color
}

// NewPiece returns a piece of color c at p.
func NewPiece(p Position, c Color) Piece { return Piece{pos: p, Color: c} }

func (p Piece) Position() Position { return p.pos }

// Flip toggles the piece between Dark and Light.
func (p *Piece) Flip() { p.Color = p.Color.Opponent() }
