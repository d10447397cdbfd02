package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrInvalidEncoding is returned for text documents that are not valid UTF-8.
var ErrInvalidEncoding = errors.New("document is not valid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadText returns the full plain text of the document at path.
func ReadText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(path)
	case ".md", ".markdown":
		raw, err := readUTF8(path)
		if err != nil {
			return "", err
		}
		return markdownText(raw), nil
	default:
		raw, err := readUTF8(path)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

func readUTF8(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrInvalidEncoding)
	}
	return raw, nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// markdownText flattens a markdown document to plain text, one block per line.
func markdownText(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var buf strings.Builder
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(source))
				}
				buf.WriteByte('\n')
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			if !entering {
				buf.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}
