// Package store keeps the corpus: every chunk of every document as one JSON object per line.
package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"legis_rag/internal/chunker"
	"legis_rag/internal/document"
)

// Store is the corpus file. It is only ever replaced as a whole.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Rebuild chunks every document in order and replaces the corpus with the result.
// Records are written to a temporary file next to the corpus and renamed over it only
// after all documents were read, so a failed rebuild leaves the previous corpus intact.
func (s *Store) Rebuild(ctx context.Context, docs []document.Document, ch chunker.Chunker) (int, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dataset-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp store: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	count := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		content, err := document.ReadText(doc.Path)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", doc.Path, err)
		}

		chunks, err := ch.Chunk(content, doc.Name)
		if err != nil {
			return 0, fmt.Errorf("chunk %s: %w", doc.Name, err)
		}

		for _, c := range chunks {
			if err := enc.Encode(c); err != nil {
				return 0, fmt.Errorf("write record for %s: %w", doc.Name, err)
			}
		}
		count += len(chunks)
		log.Printf("📄 [%s] %s: %d chunks", ch.Name(), doc.Name, len(chunks))
	}

	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("flush store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close store: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return 0, fmt.Errorf("chmod store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return 0, fmt.Errorf("replace store: %w", err)
	}
	committed = true

	return count, nil
}

// Load reads the whole corpus into memory in file order.
// A corpus that was never built is empty.
func (s *Store) Load() ([]chunker.Chunk, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	// Строки не ограничены по длине: окно задаётся конфигом
	r := bufio.NewReader(f)

	var records []chunker.Chunk
	line := 0
	for {
		raw, err := r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read store: %w", err)
		}
		if len(raw) > 0 {
			line++
		}
		if raw = bytes.TrimRight(raw, "\r\n"); len(raw) > 0 {
			var c chunker.Chunk
			if err := json.Unmarshal(raw, &c); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", s.path, line, err)
			}
			records = append(records, c)
		}
		if err != nil {
			break
		}
	}

	return records, nil
}
