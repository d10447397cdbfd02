// Package document manages the local library of legal acts: two directory roots,
// deterministic enumeration, file-name cleanup and text extraction.
package document

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Root identifies one of the library folders.
type Root int

const (
	Domestic Root = iota
	International
)

func (r Root) String() string {
	switch r {
	case Domestic:
		return "domestic"
	case International:
		return "international"
	default:
		return fmt.Sprintf("root(%d)", int(r))
	}
}

// Document is a file in one of the library roots. Name is its identity in the corpus.
type Document struct {
	Name string
	Path string
	Root Root
}

// Library enumerates documents from the domestic root, then the international root.
type Library struct {
	paths [2]string
}

// NewLibrary creates a library over the two roots.
func NewLibrary(domestic, international string) *Library {
	return &Library{paths: [2]string{domestic, international}}
}

// Path returns the directory of root r.
func (l *Library) Path(r Root) string {
	return l.paths[r]
}

// Roots returns the roots in enumeration order.
func (l *Library) Roots() []Root {
	return []Root{Domestic, International}
}

// Documents lists every supported document, domestic root first, each root sorted by name.
// A missing root is treated as empty.
func (l *Library) Documents() ([]Document, error) {
	var docs []Document
	for _, r := range l.Roots() {
		names, err := l.names(r)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			docs = append(docs, Document{
				Name: name,
				Path: filepath.Join(l.paths[r], name),
				Root: r,
			})
		}
	}
	return docs, nil
}

// List groups document names by root for display.
func (l *Library) List() (map[Root][]string, error) {
	out := make(map[Root][]string)
	for _, r := range l.Roots() {
		names, err := l.names(r)
		if err != nil {
			return nil, err
		}
		if len(names) > 0 {
			out[r] = names
		}
	}
	return out, nil
}

func (l *Library) names(r Root) ([]string, error) {
	entries, err := os.ReadDir(l.paths[r])
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s library %s: %w", r, l.paths[r], err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Supported reports whether the file can be indexed. Hidden files (including macOS "._"
// resource forks) are never indexed.
func Supported(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".markdown", ".pdf":
		return true
	}
	return false
}

// Normalize renames documents in both roots to their cleaned names.
// It returns the number of renamed files.
func (l *Library) Normalize() (int, error) {
	renamed := 0
	for _, r := range l.Roots() {
		names, err := l.names(r)
		if err != nil {
			return renamed, err
		}
		for _, name := range names {
			clean := NormalizeName(name)
			if clean == name {
				continue
			}

			oldPath := filepath.Join(l.paths[r], name)
			newPath := filepath.Join(l.paths[r], clean)
			if taken(oldPath, newPath) {
				log.Printf("⚠️  Skip rename %s -> %s: target exists", name, clean)
				continue
			}
			if err := os.Rename(oldPath, newPath); err != nil {
				return renamed, fmt.Errorf("rename %s: %w", oldPath, err)
			}
			renamed++
		}
	}
	return renamed, nil
}

// taken reports whether newPath is occupied by a file other than oldPath.
// Normalization-insensitive file systems resolve an NFC name to the NFD original.
func taken(oldPath, newPath string) bool {
	newInfo, err := os.Stat(newPath)
	if err != nil {
		return false
	}
	oldInfo, err := os.Stat(oldPath)
	if err != nil {
		return true
	}
	return !os.SameFile(oldInfo, newInfo)
}

// Save writes content as a new .txt document in root r and returns its path.
// Path separators in title are replaced so the act always lands directly in the root.
func (l *Library) Save(r Root, title, content string) (string, error) {
	name := strings.NewReplacer("/", "-", `\`, "-").Replace(strings.TrimSpace(title))
	if name == "" {
		return "", errors.New("empty document title")
	}
	if !strings.EqualFold(filepath.Ext(name), ".txt") {
		name += ".txt"
	}

	if err := os.MkdirAll(l.paths[r], 0755); err != nil {
		return "", fmt.Errorf("create %s library: %w", r, err)
	}
	path := filepath.Join(l.paths[r], name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
