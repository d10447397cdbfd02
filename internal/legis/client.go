// Package legis downloads the text of Romanian legal acts from the legislatie.just.ro portal.
package legis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DefaultPortalURL = "https://legislatie.just.ro/Public"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	DefaultTimeout   = 10 * time.Second
)

// ErrNotFound means the search returned no act.
var ErrNotFound = errors.New("legis: act not found")

var detailsID = regexp.MustCompile(`DetaliiDocument/(\d+)`)

type Config struct {
	PortalURL   string
	UserAgent   string
	Timeout     time.Duration
	InsecureTLS bool
}

type Client struct {
	http      *http.Client
	portalURL string
	userAgent string
}

func NewClient(cfg Config) *Client {
	if cfg.PortalURL == "" {
		cfg.PortalURL = DefaultPortalURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureTLS {
		// Портал периодически отдаёт неполную цепочку сертификатов
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout, Transport: transport},
		portalURL: strings.TrimRight(cfg.PortalURL, "/"),
		userAgent: cfg.UserAgent,
	}
}

// Fetch searches the portal by title and returns the plain text of the first act found.
func (c *Client) Fetch(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: empty title", ErrNotFound)
	}

	log.Printf("🔍 Searching portal for %q", title)

	results, err := c.get(ctx, c.portalURL+"/RezultateCautare?titlu="+url.QueryEscape(title))
	if err != nil {
		return "", fmt.Errorf("search %q: %w", title, err)
	}

	id, ok := FindActID(results)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, title)
	}

	page, err := c.get(ctx, c.portalURL+"/DetaliiDocumentAfis/"+id)
	if err != nil {
		return "", fmt.Errorf("fetch act %s: %w", id, err)
	}

	text := ActText(page)
	if text == "" {
		return "", fmt.Errorf("%w: act %s has no text", ErrNotFound, id)
	}
	log.Printf("✅ Downloaded act %s (%d bytes)", id, len(text))
	return text, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// FindActID returns the id of the first act link in a search results page.
func FindActID(doc *html.Node) (string, bool) {
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			continue
		}
		if m := detailsID.FindStringSubmatch(attr(n, "href")); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ActText extracts the act body from an act page: the divTextAct container, or the whole
// body when the page has none. Text nodes are trimmed and joined by newlines.
func ActText(doc *html.Node) string {
	root := findElement(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Div && attr(n, "id") == "divTextAct"
	})
	if root == nil {
		root = findElement(doc, func(n *html.Node) bool { return n.DataAtom == atom.Body })
	}
	if root == nil {
		return ""
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Nav:
				return
			}
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				lines = append(lines, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(lines, "\n")
}

func findElement(doc *html.Node, match func(*html.Node) bool) *html.Node {
	for n := range doc.Descendants() {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
