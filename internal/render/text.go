// Package render draws a game for the console and as a PNG image.
package render

import (
    "bufio"
    "fmt"
    "io"
    "strings"

    "github.com/jaminalder/codex-othello/internal/domain"
)

// Console glyphs.
const (
    DarkGlyph  = "●"
    LightGlyph = "○"
    MoveGlyph  = "·"
)

// Glyph returns the console glyph for c.
func Glyph(c domain.Color) string {
    if c == domain.Light {
        return LightGlyph
    }
    return DarkGlyph
}

// Text writes the board as a framed grid with column letters and row
// numbers. When showMoves is set, legal targets are marked.
func Text(w io.Writer, g *domain.Game, showMoves bool) error {
    bw := bufio.NewWriter(w)
    line := "   " + strings.Repeat("+---", domain.Side) + "+\n"

    bw.WriteString("   ")
    for c := 0; c < domain.Side; c++ {
        fmt.Fprintf(bw, "  %c ", 'A'+c)
    }
    bw.WriteString("\n")
    for r := 0; r < domain.Side; r++ {
        bw.WriteString(line)
        fmt.Fprintf(bw, " %d ", r+1)
        for c := 0; c < domain.Side; c++ {
            fmt.Fprintf(bw, "| %s ", cell(g, domain.At(r, c), showMoves))
        }
        bw.WriteString("|\n")
    }
    bw.WriteString(line)
    return bw.Flush()
}

func cell(g *domain.Game, p domain.Position, showMoves bool) string {
    if pc, ok := g.PieceAt(p); ok {
        return Glyph(pc.Color)
    }
    if showMoves && g.IsLegal(p) {
        return MoveGlyph
    }
    return " "
}
