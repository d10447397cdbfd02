package chunker

import (
	"fmt"
	"iter"
	"slices"
)

const (
	DefaultSize    = 1500
	DefaultOverlap = 300
)

// TextChunker slides a fixed-size character window over plain text.
type TextChunker struct {
	config Config
}

// NewTextChunker создаёт chunker с окном config.Size и шагом config.Stride().
func NewTextChunker(config Config) (*TextChunker, error) {
	if config.Size <= 0 {
		return nil, fmt.Errorf("chunk size must be > 0, got %d", config.Size)
	}
	if config.Overlap < 0 || config.Overlap >= config.Size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", config.Size, config.Overlap)
	}
	return &TextChunker{config: config}, nil
}

func (s *TextChunker) Name() string {
	return "window"
}

func (s *TextChunker) Chunk(content, source string) ([]Chunk, error) {
	return slices.Collect(s.All(content, source)), nil
}

// All yields chunks lazily, in offset order. Windows start at 0, stride, 2*stride, ...
// and stop once a window has reached the end of the content.
func (s *TextChunker) All(content, source string) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		runes := []rune(content)
		for i := 0; i < len(runes); i += s.config.Stride() {
			end := min(i+s.config.Size, len(runes))

			if chunk, ok := CreateChunk(string(runes[i:end]), source); ok {
				if !yield(chunk) {
					return
				}
			}

			if end >= len(runes) {
				return
			}
		}
	}
}
