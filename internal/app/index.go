package app

import (
	"context"
	"fmt"
	"log"
)

// SyncResult summarizes a corpus rebuild.
type SyncResult struct {
	Renamed   int
	Documents int
	Chunks    int
}

// Sync cleans up document file names and rebuilds the corpus from the whole library.
// There is no incremental update: every sync rereads every document.
func (a *App) Sync(ctx context.Context) (SyncResult, error) {
	log.Println("🧹 Normalizing file names...")
	renamed, err := a.library.Normalize()
	if err != nil {
		return SyncResult{}, fmt.Errorf("normalize names: %w", err)
	}
	if renamed > 0 {
		log.Printf("✏️  Renamed %d files", renamed)
	}

	docs, err := a.library.Documents()
	if err != nil {
		return SyncResult{}, fmt.Errorf("list documents: %w", err)
	}

	log.Printf("📦 Rebuilding corpus from %d documents into %s", len(docs), a.store.Path())
	chunks, err := a.store.Rebuild(ctx, docs, a.chunker)
	if err != nil {
		return SyncResult{}, fmt.Errorf("rebuild corpus: %w", err)
	}
	log.Printf("✨ Done: %d documents, %d chunks", len(docs), chunks)

	return SyncResult{Renamed: renamed, Documents: len(docs), Chunks: chunks}, nil
}
