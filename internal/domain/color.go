package domain

import (
    "fmt"
    "strings"
)

// Color is the color of a disc and of the side to move. The zero value is
// not a color; constructors and parsers never produce it.
type Color uint8

const (
    Dark Color = iota + 1
    Light
)

// Opponent returns the other color.
func (c Color) Opponent() Color {
    if c == Dark {
        return Light
    }
    return Dark
}

// Valid reports whether c is Dark or Light.
func (c Color) Valid() bool { return c == Dark || c == Light }

func (c Color) String() string {
    switch c {
    case Dark:
        return "DARK"
    case Light:
        return "LIGHT"
    default:
        return fmt.Sprintf("Color(%d)", uint8(c))
    }
}

// ParseColor accepts the names produced by String, case-insensitively.
func ParseColor(s string) (Color, error) {
    switch strings.ToUpper(strings.TrimSpace(s)) {
    case "DARK":
        return Dark, nil
    case "LIGHT":
        return Light, nil
    }
    return 0, fmt.Errorf("unknown color %q", s)
}

// Outcome is the result of a finished match.
type Outcome uint8

const (
    OutcomeTie Outcome = iota
    OutcomeDark
    OutcomeLight
)

func (o Outcome) String() string {
    switch o {
    case OutcomeDark:
        return "DARK"
    case OutcomeLight:
        return "LIGHT"
    default:
        return "TIE"
    }
}
