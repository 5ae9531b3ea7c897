package domain

import (
    "fmt"
    "strings"
)

// TranslateCommand converts a two-character move such as "e7" into a
// position. The letter selects the column (A=0) and the digit the row
// (1=0).
func TranslateCommand(text string) (Position, error) {
    s := strings.ToUpper(text)
    if len(s) != 2 {
        return 0, fmt.Errorf("%w: %q", ErrInvalidCommandFormat, text)
    }
    letter, digit := s[0], s[1]
    if letter < 'A' || letter > 'H' || digit < '1' || digit > '8' {
        return 0, fmt.Errorf("%w: %q", ErrInvalidCommandFormat, text)
    }
    return At(int(digit-'1'), int(letter-'A')), nil
}
