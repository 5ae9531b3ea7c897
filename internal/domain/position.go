package domain

import "fmt"

// Side is the length of a board edge; Squares is the number of squares.
const (
    Side    = 8
    Squares = Side * Side
)

// Position indexes a square row-major: row = p / 8, col = p % 8.
type Position int

// At returns the position at row r, column c. It does not check bounds.
func At(r, c int) Position { return Position(r*Side + c) }

func (p Position) Row() int { return int(p) / Side }
func (p Position) Col() int { return int(p) % Side }

// Valid reports whether p lies on the board.
func (p Position) Valid() bool { return p >= 0 && p < Squares }

// String renders p as a move command, e.g. 52 -> "E7".
func (p Position) String() string {
    if !p.Valid() {
        return fmt.Sprintf("Position(%d)", int(p))
    }
    return fmt.Sprintf("%c%d", 'A'+p.Col(), p.Row()+1)
}
