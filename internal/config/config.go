package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	BasePath    string `env:"LEGIS_BASE_PATH" envDefault:"./Legis"`
	EUDir       string `env:"LEGIS_EU_DIR" envDefault:"EU"`
	DatasetFile string `env:"LEGIS_DATASET_FILE"`

	OllamaURL         string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel       string        `env:"OLLAMA_MODEL" envDefault:"llama3.1:8b"`
	OllamaTimeout     time.Duration `env:"OLLAMA_TIMEOUT" envDefault:"120s"`
	OllamaNumCtx      int           `env:"OLLAMA_NUM_CTX" envDefault:"10000"`
	OllamaTemperature float64       `env:"OLLAMA_TEMPERATURE" envDefault:"0"`
	OllamaPullMissing bool          `env:"OLLAMA_PULL_MISSING" envDefault:"false"`

	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1500"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"300"`

	DocLimit      int `env:"RETRIEVE_DOC_LIMIT" envDefault:"6"`
	FallbackLimit int `env:"RETRIEVE_FALLBACK_LIMIT" envDefault:"5"`

	PortalURL       string        `env:"LEGIS_PORTAL_URL" envDefault:"https://legislatie.just.ro/Public"`
	UserAgent       string        `env:"LEGIS_USER_AGENT" envDefault:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"`
	DownloadTimeout time.Duration `env:"LEGIS_DOWNLOAD_TIMEOUT" envDefault:"10s"`
	InsecureTLS     bool          `env:"LEGIS_INSECURE_TLS" envDefault:"false"`
}

// Init parses the environment into cfg and fills derived paths.
func Init(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return err
	}
	if cfg.DatasetFile == "" {
		cfg.DatasetFile = filepath.Join(cfg.BasePath, "dataset_ai.jsonl")
	}
	return cfg.Validate()
}

// EUPath is the root of the international library.
func (c *Config) EUPath() string {
	if filepath.IsAbs(c.EUDir) {
		return c.EUDir
	}
	return filepath.Join(c.BasePath, c.EUDir)
}

// Validate checks settings that would break chunking or retrieval.
func (c *Config) Validate() error {
	var errs []error
	if c.BasePath == "" {
		errs = append(errs, errors.New("LEGIS_BASE_PATH must not be empty"))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("CHUNK_SIZE must be > 0, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		errs = append(errs, fmt.Errorf("CHUNK_OVERLAP must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap))
	}
	if c.DocLimit <= 0 {
		errs = append(errs, fmt.Errorf("RETRIEVE_DOC_LIMIT must be > 0, got %d", c.DocLimit))
	}
	if c.FallbackLimit <= 0 {
		errs = append(errs, fmt.Errorf("RETRIEVE_FALLBACK_LIMIT must be > 0, got %d", c.FallbackLimit))
	}
	if c.OllamaTimeout <= 0 {
		errs = append(errs, fmt.Errorf("OLLAMA_TIMEOUT must be > 0, got %s", c.OllamaTimeout))
	}
	return errors.Join(errs...)
}
