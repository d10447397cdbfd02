package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"legis_rag/internal/chunker"
	"legis_rag/internal/config"
	"legis_rag/internal/document"
	"legis_rag/internal/legis"
	"legis_rag/internal/ollama"
	"legis_rag/internal/retriever"
	"legis_rag/internal/store"
)

// Retriever selects corpus passages for a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]retriever.Match, error)
}

// LLM answers prompts.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
	EnsureModel(ctx context.Context, pull bool) error
}

// Fetcher downloads the text of an act by title.
type Fetcher interface {
	Fetch(ctx context.Context, title string) (string, error)
}

type App struct {
	cfg       *config.Config
	out       io.Writer
	library   *document.Library
	chunker   chunker.Chunker
	store     *store.Store
	retriever Retriever
	llm       LLM
	fetcher   Fetcher
}

// New wires the library, corpus store, retriever, model gateway and act downloader.
// User-facing output goes to out.
func New(cfg *config.Config, out io.Writer) (*App, error) {
	ch, err := chunker.NewTextChunker(chunker.Config{
		Size:    cfg.ChunkSize,
		Overlap: cfg.ChunkOverlap,
	})
	if err != nil {
		return nil, fmt.Errorf("create chunker: %w", err)
	}

	st := store.New(cfg.DatasetFile)

	return &App{
		cfg:     cfg,
		out:     out,
		library: document.NewLibrary(cfg.BasePath, cfg.EUPath()),
		chunker: ch,
		store:   st,
		retriever: retriever.New(st, retriever.Config{
			DocLimit:      cfg.DocLimit,
			FallbackLimit: cfg.FallbackLimit,
		}),
		llm: ollama.NewClient(ollama.Config{
			BaseURL:     cfg.OllamaURL,
			Model:       cfg.OllamaModel,
			Timeout:     cfg.OllamaTimeout,
			NumCtx:      cfg.OllamaNumCtx,
			Temperature: cfg.OllamaTemperature,
		}),
		fetcher: legis.NewClient(legis.Config{
			PortalURL:   cfg.PortalURL,
			UserAgent:   cfg.UserAgent,
			Timeout:     cfg.DownloadTimeout,
			InsecureTLS: cfg.InsecureTLS,
		}),
	}, nil
}

// Init creates the library root and checks that the model is available.
// A missing model or an unreachable server is only reported: the library can still be
// browsed, downloaded and synced offline.
func (a *App) Init(ctx context.Context) error {
	if err := os.MkdirAll(a.cfg.BasePath, 0755); err != nil {
		return fmt.Errorf("create library directory: %w", err)
	}

	if err := a.llm.EnsureModel(ctx, a.cfg.OllamaPullMissing); err != nil {
		log.Printf("⚠️  Model check failed: %v", err)
		return nil
	}
	log.Printf("✅ Model %s is ready", a.cfg.OllamaModel)
	return nil
}
