package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"legis_rag/internal/document"
	"legis_rag/internal/legis"
)

const menu = "\n1. Add act | 2. Sync | 3. Ask | 4. Exit"

// Run shows the library and the menu before every choice and executes the chosen action
// until Exit, end of input or ctx cancellation. A failed action is reported and the menu
// is shown again.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	// Длинные вопросы
	const maxLineSize = 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	readLine := func(prompt string) (string, bool) {
		fmt.Fprint(a.out, prompt)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down")
			return nil
		default:
		}

		if err := a.ShowLibrary(); err != nil {
			fmt.Fprintf(a.out, "❌ %v\n", err)
		}
		fmt.Fprintln(a.out, menu)

		choice, ok := readLine("Choose: ")
		if !ok {
			return inputErr(scanner)
		}

		switch choice {
		case "1":
			title, ok := readLine("Act title: ")
			if !ok {
				return inputErr(scanner)
			}
			a.handleAdd(ctx, title)
		case "2":
			a.handleSync(ctx)
		case "3":
			question, ok := readLine("Question: ")
			if !ok {
				return inputErr(scanner)
			}
			answer, err := a.Ask(ctx, question)
			a.printAnswer(answer, err)
		case "4":
			return nil
		default:
			// Неизвестный ввод просто перерисовывает меню
		}
	}
}

func (a *App) handleAdd(ctx context.Context, title string) {
	if title == "" {
		return
	}

	path, err := a.AddAct(ctx, title, document.Domestic)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "✅ Downloaded: %s\n", path)
	case errors.Is(err, legis.ErrNotFound):
		fmt.Fprintln(a.out, "❌ Act not found.")
	default:
		fmt.Fprintf(a.out, "❌ Download failed: %v\n", err)
	}
}

func (a *App) handleSync(ctx context.Context) {
	res, err := a.Sync(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "❌ Sync failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "✨ Done! %d acts ready (%d passages).\n", res.Documents, res.Chunks)
}

// inputErr turns the end of input into a clean exit.
func inputErr(scanner *bufio.Scanner) error {
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	log.Println("input closed")
	return nil
}
