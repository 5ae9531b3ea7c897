package domain

// Direction is one of the eight compass steps a Cursor can take.
type Direction uint8

const (
    Right Direction = iota
    Down
    Left
    Up
    LowerRight
    LowerLeft
    UpperRight
    UpperLeft
)

// Directions lists every direction, clockwise from Right followed by the
// diagonals.
var Directions = [...]Direction{Right, Down, Left, Up, LowerRight, LowerLeft, UpperRight, UpperLeft}

func (d Direction) String() string {
    switch d {
    case Right:
        return "right"
    case Down:
        return "down"
    case Left:
        return "left"
    case Up:
        return "up"
    case LowerRight:
        return "lower-right"
    case LowerLeft:
        return "lower-left"
    case UpperRight:
        return "upper-right"
    case UpperLeft:
        return "upper-left"
    }
    return "unknown"
}

// Cursor walks the board from a fixed origin. Both fields always hold a
// valid position; a failed step leaves the cursor where it was.
type Cursor struct {
    origin  Position
    current Position
}

// NewCursor returns a cursor with origin and current at p.
func NewCursor(p Position) (Cursor, error) {
    var c Cursor
    if err := c.SetPosition(p); err != nil {
        return Cursor{}, err
    }
    return c, nil
}

func (c Cursor) Origin() Position  { return c.origin }
func (c Cursor) Current() Position { return c.current }

// SetPosition moves both origin and current to p.
func (c *Cursor) SetPosition(p Position) error {
    if !p.Valid() {
        return ErrOutOfBounds
    }
    c.origin = p
    c.current = p
    return nil
}

// Reset returns current to origin.
func (c *Cursor) Reset() { c.current = c.origin }

func (c *Cursor) Right() error { return c.move(0, 1) }
func (c *Cursor) Left() error  { return c.move(0, -1) }
func (c *Cursor) Up() error    { return c.move(-1, 0) }
func (c *Cursor) Down() error  { return c.move(1, 0) }

// Diagonals are a vertical step followed by a horizontal one, applied
// together or not at all.
func (c *Cursor) UpperRight() error { return c.move(-1, 1) }
func (c *Cursor) LowerRight() error { return c.move(1, 1) }
func (c *Cursor) UpperLeft() error  { return c.move(-1, -1) }
func (c *Cursor) LowerLeft() error  { return c.move(1, -1) }

// Step moves one square in direction d.
func (c *Cursor) Step(d Direction) error {
    switch d {
    case Right:
        return c.Right()
    case Down:
        return c.Down()
    case Left:
        return c.Left()
    case Up:
        return c.Up()
    case LowerRight:
        return c.LowerRight()
    case LowerLeft:
        return c.LowerLeft()
    case UpperRight:
        return c.UpperRight()
    case UpperLeft:
        return c.UpperLeft()
    }
    return ErrOutOfBounds
}

func (c *Cursor) move(dr, dc int) error {
    next := c.current
    if dr != 0 {
        p, ok := vertical(next, dr)
        if !ok {
            return ErrOutOfBounds
        }
        next = p
    }
    if dc != 0 {
        p, ok := horizontal(next, dc)
        if !ok {
            return ErrOutOfBounds
        }
        next = p
    }
    c.current = next
    return nil
}

func vertical(p Position, dr int) (Position, bool) {
    next := p + Position(dr*Side)
    return next, next.Valid()
}

// horizontal rejects steps that would land on the opposite edge of the
// neighbouring row.
func horizontal(p Position, dc int) (Position, bool) {
    col := p.Col() + dc
    if col < 0 || col >= Side {
        return p, false
    }
    return p + Position(dc), true
}
