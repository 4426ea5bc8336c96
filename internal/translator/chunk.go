package translator

import (
	"strings"
	"unicode/utf8"
)

// MaxTextBytes is the provider's limit on a single request's text size.
const MaxTextBytes = 10000

// SplitText splits text into pieces of at most maxBytes bytes. Cuts fall
// after the last whitespace in the window when there is one, otherwise on a
// rune boundary. Concatenating the pieces yields text.
func SplitText(text string, maxBytes int) []string {
	if len(text) == 0 {
		return nil
	}
	if maxBytes <= 0 {
		maxBytes = MaxTextBytes
	}

	var pieces []string
	for len(text) > maxBytes {
		cut := strings.LastIndexAny(text[:maxBytes], " \t\n\r")
		if cut > 0 {
			cut++ // keep the separator with the left piece
		} else {
			cut = maxBytes
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				// a single rune wider than maxBytes
				_, size := utf8.DecodeRuneInString(text)
				cut = size
			}
		}
		pieces = append(pieces, text[:cut])
		text = text[cut:]
	}
	return append(pieces, text)
}
