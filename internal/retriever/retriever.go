// Package retriever selects corpus passages for a question with a two-phase keyword search.
//
// Phase 1 keeps records whose document name contains any target keyword and whose text
// contains every keyword. Phase 2 runs only when phase 1 found nothing and keeps records
// whose text contains the first two keywords. Both phases return the first hits in corpus
// order and stop scanning at their cap; there is no scoring.
package retriever

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"legis_rag/internal/chunker"
)

const (
	DefaultDocLimit      = 6
	DefaultFallbackLimit = 5
)

// Phase tells which pass produced a match.
type Phase int

const (
	PhaseDocument Phase = 1
	PhaseFallback Phase = 2
)

// stopWords occur in nearly every act name, so they never select a document.
var stopWords = map[string]struct{}{
	"cod":  {},
	"art":  {},
	"lege": {},
}

// Match is one passage selected for the prompt.
type Match struct {
	Doc   string
	Text  string
	Phase Phase
}

// Source supplies the corpus in store order.
type Source interface {
	Load() ([]chunker.Chunk, error)
}

type Config struct {
	DocLimit      int
	FallbackLimit int
}

type Retriever struct {
	source Source
	cfg    Config
}

func New(source Source, cfg Config) *Retriever {
	if cfg.DocLimit <= 0 {
		cfg.DocLimit = DefaultDocLimit
	}
	if cfg.FallbackLimit <= 0 {
		cfg.FallbackLimit = DefaultFallbackLimit
	}
	return &Retriever{source: source, cfg: cfg}
}

// Retrieve loads the corpus and searches it for query.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := r.source.Load()
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	return r.Search(Keywords(query), records), nil
}

// Search runs both phases over records. Without keywords nothing is selected.
func (r *Retriever) Search(keywords []string, records []chunker.Chunk) []Match {
	if len(keywords) == 0 {
		return nil
	}

	if matches := r.byDocument(keywords, records); len(matches) > 0 {
		return matches
	}
	return r.fallback(keywords, records)
}

func (r *Retriever) byDocument(keywords []string, records []chunker.Chunk) []Match {
	targets := TargetKeywords(keywords)
	if len(targets) == 0 {
		return nil
	}

	var matches []Match
	for _, rec := range records {
		if !containsAny(strings.ToLower(rec.Doc), targets) {
			continue
		}
		if !containsAll(strings.ToLower(rec.Text), keywords) {
			continue
		}
		matches = append(matches, Match{Doc: rec.Doc, Text: rec.Text, Phase: PhaseDocument})
		if len(matches) >= r.cfg.DocLimit {
			break
		}
	}
	return matches
}

func (r *Retriever) fallback(keywords []string, records []chunker.Chunk) []Match {
	required := keywords[:min(2, len(keywords))]

	var matches []Match
	for _, rec := range records {
		if !containsAll(strings.ToLower(rec.Text), required) {
			continue
		}
		matches = append(matches, Match{Doc: rec.Doc, Text: rec.Text, Phase: PhaseFallback})
		if len(matches) >= r.cfg.FallbackLimit {
			break
		}
	}
	return matches
}

// Keywords splits query into lower-cased word tokens longer than two characters,
// in order of appearance. Anything that is not a letter, digit or underscore separates words.
func Keywords(query string) []string {
	query = strings.ToLower(norm.NFC.String(query))
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !isWordRune(r)
	})

	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) > 2 {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// TargetKeywords drops the generic stop words used in act names.
func TargetKeywords(keywords []string) []string {
	targets := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if _, stop := stopWords[strings.ToLower(k)]; stop {
			continue
		}
		targets = append(targets, k)
	}
	return targets
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
