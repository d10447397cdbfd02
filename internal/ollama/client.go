// Package ollama talks to a local Ollama server: non-streaming generation and model
// installation.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.1:8b"
	DefaultTimeout = 120 * time.Second
)

// Failure kinds of a gateway call. Every error returned by Client wraps exactly one of them
// (or the caller's context.Canceled).
var (
	ErrTimeout      = errors.New("ollama: request timed out")
	ErrUnavailable  = errors.New("ollama: server unreachable")
	ErrBadResponse  = errors.New("ollama: bad response")
	ErrModelMissing = errors.New("ollama: model not installed")
)

type Config struct {
	BaseURL     string
	Model       string
	Timeout     time.Duration
	NumCtx      int
	Temperature float64
}

type Client struct {
	http        *http.Client
	pull        *http.Client
	baseURL     string
	model       string
	numCtx      int
	temperature float64
}

// generateRequest is the /api/generate request body.
type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

// Temperature is always sent: zero means deterministic decoding, not "server default".
type options struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

type pullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		// Скачивание модели может идти долго, ограничиваем только контекстом
		pull:        &http.Client{},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		numCtx:      cfg.NumCtx,
		temperature: cfg.Temperature,
	}
}

// Generate sends prompt to /api/generate and returns the model's answer.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: options{
			Temperature: c.temperature,
			NumCtx:      c.numCtx,
		},
	}

	var resp generateResponse
	if err := c.postJSON(ctx, c.http, "/api/generate", body, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// EnsureModel checks that the configured model is installed and, when pull is set,
// installs it. Without pull a missing model is ErrModelMissing.
func (c *Client) EnsureModel(ctx context.Context, pull bool) error {
	tags, err := c.tags(ctx)
	if err != nil {
		return err
	}

	for _, m := range tags.Models {
		if sameModel(m.Name, c.model) || sameModel(m.Model, c.model) {
			return nil
		}
	}

	if !pull {
		return fmt.Errorf("%w: %s", ErrModelMissing, c.model)
	}

	var status struct {
		Status string `json:"status"`
	}
	if err := c.postJSON(ctx, c.pull, "/api/pull", pullRequest{Model: c.model, Stream: false}, &status); err != nil {
		return fmt.Errorf("pull %s: %w", c.model, err)
	}
	return nil
}

// sameModel treats "llama3.1" and "llama3.1:latest" as the same model.
func sameModel(installed, wanted string) bool {
	if installed == "" {
		return false
	}
	if installed == wanted {
		return true
	}
	return strings.TrimSuffix(installed, ":latest") == strings.TrimSuffix(wanted, ":latest")
}

func (c *Client) tags(ctx context.Context) (*tagsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var tags tagsResponse
	if err := c.do(c.http, req, &tags); err != nil {
		return nil, err
	}
	return &tags, nil
}

func (c *Client) postJSON(ctx context.Context, client *http.Client, path string, in, out any) error {
	jsonBody, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(client, req, out)
}

func (c *Client) do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		if isTimeout(err) {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("%w: decode: %w", ErrBadResponse, err)
	}
	return nil
}

// classify maps a transport error to ErrTimeout or ErrUnavailable.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
