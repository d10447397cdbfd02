package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"legis_rag/internal/document"
)

// ShowLibrary prints the documents of every non-empty root, or a hint when the library is empty.
func (a *App) ShowLibrary() error {
	list, err := a.library.List()
	if err != nil {
		return fmt.Errorf("list library: %w", err)
	}

	fmt.Fprintln(a.out, "\n📚 Local library:")
	if len(list) == 0 {
		fmt.Fprintln(a.out, "  (empty, download acts with option 1)")
		return nil
	}

	for _, root := range a.library.Roots() {
		names, ok := list[root]
		if !ok {
			continue
		}
		fmt.Fprintf(a.out, "  [%s]:\n", filepath.Base(a.library.Path(root)))
		for _, name := range names {
			fmt.Fprintf(a.out, "    - %s\n", name)
		}
	}
	return nil
}

// AddAct downloads the act found by title and saves it into root as <title>.txt.
// The corpus is not touched until the next sync.
func (a *App) AddAct(ctx context.Context, title string, root document.Root) (string, error) {
	text, err := a.fetcher.Fetch(ctx, title)
	if err != nil {
		return "", err
	}

	path, err := a.library.Save(root, title, text)
	if err != nil {
		return "", fmt.Errorf("save %q: %w", title, err)
	}
	log.Printf("💾 Saved %s", path)
	return path, nil
}
