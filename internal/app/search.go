package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"legis_rag/internal/ollama"
)

// Ask retrieves passages for query, builds the prompt and returns the model's answer.
// Finding no passages is not an error: the model is still asked, with the no-context marker.
func (a *App) Ask(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("empty question")
	}

	matches, err := a.retriever.Retrieve(ctx, query)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}

	prompt := BuildPrompt(query, matches)
	log.Printf("🤖 Querying Ollama (context: %d passages, prompt: %d bytes)", len(matches), len(prompt))

	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return answer, nil
}

// printAnswer writes the answer, or a message for the kind of failure.
func (a *App) printAnswer(answer string, err error) {
	if err == nil {
		fmt.Fprintf(a.out, "\n🤖 Answer:\n%s\n%s\n%s\n", rule, strings.TrimSpace(answer), rule)
		return
	}

	switch {
	case errors.Is(err, ollama.ErrTimeout):
		fmt.Fprintf(a.out, "❌ Ollama did not answer within %s.\n", a.cfg.OllamaTimeout)
	case errors.Is(err, ollama.ErrUnavailable):
		fmt.Fprintf(a.out, "❌ Ollama is not reachable at %s. Is `ollama serve` running?\n", a.cfg.OllamaURL)
	case errors.Is(err, ollama.ErrBadResponse):
		fmt.Fprintf(a.out, "❌ Ollama returned an invalid response: %v\n", err)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(a.out, "⏹  Canceled.")
	default:
		fmt.Fprintf(a.out, "❌ Error: %v\n", err)
	}
}

const rule = "------------------------------"
