package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legis_rag/internal/config"
)

type fakeLLM struct {
	answer   string
	err      error
	prompts  []string
	ensure   error
	pullFlag []bool
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func (f *fakeLLM) EnsureModel(_ context.Context, pull bool) error {
	f.pullFlag = append(f.pullFlag, pull)
	return f.ensure
}

type fakeFetcher struct {
	text   string
	err    error
	titles []string
}

func (f *fakeFetcher) Fetch(_ context.Context, title string) (string, error) {
	f.titles = append(f.titles, title)
	return f.text, f.err
}

type testApp struct {
	*App
	base    string
	out     *bytes.Buffer
	llm     *fakeLLM
	fetcher *fakeFetcher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	base := filepath.Join(t.TempDir(), "Legis")
	cfg := &config.Config{
		BasePath:      base,
		EUDir:         "EU",
		DatasetFile:   filepath.Join(base, "dataset_ai.jsonl"),
		OllamaURL:     "http://localhost:11434",
		OllamaModel:   "llama3.1:8b",
		OllamaTimeout: 120 * time.Second,
		ChunkSize:     1500,
		ChunkOverlap:  300,
		DocLimit:      6,
		FallbackLimit: 5,
	}
	require.NoError(t, cfg.Validate())

	out := &bytes.Buffer{}
	a, err := New(cfg, out)
	require.NoError(t, err)

	llm := &fakeLLM{answer: "Răspuns."}
	fetcher := &fakeFetcher{}
	a.llm = llm
	a.fetcher = fetcher

	return &testApp{App: a, base: base, out: out, llm: llm, fetcher: fetcher}
}

func (ta *testApp) write(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(ta.base, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew_InvalidChunking(t *testing.T) {
	_, err := New(&config.Config{ChunkSize: 10, ChunkOverlap: 10}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	ta := newTestApp(t)
	ta.cfg.OllamaPullMissing = true

	require.NoError(t, ta.Init(context.Background()))
	assert.DirExists(t, ta.base)
	assert.Equal(t, []bool{true}, ta.llm.pullFlag)
}

func TestInit_ModelFailureIsOnlyReported(t *testing.T) {
	ta := newTestApp(t)
	ta.llm.ensure = assert.AnError

	assert.NoError(t, ta.Init(context.Background()))
}
