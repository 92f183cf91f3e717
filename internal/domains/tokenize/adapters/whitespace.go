package adapters

import (
	"unicode"
	"unicode/utf8"
)

// WhitespaceCounter counts maximal runs of non-whitespace characters, the
// same units strings.Fields would return, without allocating them.
type WhitespaceCounter struct{}

func NewWhitespaceCounter() WhitespaceCounter { return WhitespaceCounter{} }

func (WhitespaceCounter) Count(text string) (int, error) {
	n := 0
	inToken := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if unicode.IsSpace(r) {
			inToken = false
			continue
		}
		if !inToken {
			n++
			inToken = true
		}
	}
	return n, nil
}

func (WhitespaceCounter) Name() string { return SchemeWhitespace }
