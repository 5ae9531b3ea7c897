package domain

import (
    "errors"
    "testing"
)

func TestTranslateCommand(t *testing.T) {
    cases := map[string]Position{
        "E7": 52,
        "a5": 32,
        "B8": 57,
        "a1": 0,
        "H8": 63,
        "h1": 7,
    }
    for in, want := range cases {
        got, err := TranslateCommand(in)
        if err != nil {
            t.Fatalf("TranslateCommand(%q) error: %v", in, err)
        }
        if got != want {
            t.Fatalf("TranslateCommand(%q) = %d, want %d", in, got, want)
        }
    }
}

func TestTranslateCommandRejects(t *testing.T) {
    for _, in := range []string{"", "A", "test", "AJ", "@5", "~6", "A0", "A9", "I1", "5A", " A1"} {
        if _, err := TranslateCommand(in); !errors.Is(err, ErrInvalidCommandFormat) {
            t.Fatalf("TranslateCommand(%q): expected ErrInvalidCommandFormat, got %v", in, err)
        }
    }
}

func TestPositionStringRoundTrip(t *testing.T) {
    for p := Position(0); p < Squares; p++ {
        got, err := TranslateCommand(p.String())
        if err != nil || got != p {
            t.Fatalf("round trip of %d via %q gave %d, %v", p, p.String(), got, err)
        }
    }
}
