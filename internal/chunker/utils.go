package chunker

import (
	"strings"
)

// CreateChunk trims text and reports whether anything is left.
func CreateChunk(text, source string) (Chunk, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Chunk{}, false
	}
	return Chunk{Doc: source, Text: text}, true
}
