package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// clean drops control and escape characters from remote text so it cannot
// move the cursor or restyle the terminal. Newlines become spaces.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// truncate shortens s to max display cells with an ellipsis
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	return runewidth.Truncate(s, max, "...")
}

// pad right-pads s to width display cells
func pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// repeat creates a string by repeating s n times
func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
