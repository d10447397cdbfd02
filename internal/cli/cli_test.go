package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCLI points the library at a temp dir and restores the environment afterwards.
func setupCLI(t *testing.T) string {
	t.Helper()
	base := filepath.Join(t.TempDir(), "Legis")
	for _, key := range []string{"LEGIS_BASE_PATH", "LEGIS_DATASET_FILE", "OLLAMA_URL", "OLLAMA_MODEL", "LEGIS_PORTAL_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	addInternational = false
	return base
}

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(in))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func fakeOllama(t *testing.T, answer string, prompts *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Write([]byte(`{"models":[{"name":"llama3.1:8b"}]}`))
		case "/api/generate":
			var req struct {
				Prompt string `json:"prompt"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			*prompts = append(*prompts, req.Prompt)
			json.NewEncoder(w).Encode(map[string]any{"response": answer, "done": true})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"base", "model", "ollama-url"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.NotNil(t, addCmd.Flags().Lookup("international"))
}

func TestListCmd(t *testing.T) {
	base := setupCLI(t)
	writeDoc(t, filepath.Join(base, "codul_fiscal.txt"), "x")
	writeDoc(t, filepath.Join(base, "EU", "gdpr.txt"), "y")

	out, err := execute(t, "", "list", "--base", base)
	require.NoError(t, err)
	assert.Contains(t, out, "[Legis]:\n    - codul_fiscal.txt")
	assert.Contains(t, out, "[EU]:\n    - gdpr.txt")
}

func TestSyncAndAskCmd(t *testing.T) {
	base := setupCLI(t)
	writeDoc(t, filepath.Join(base, "codul_fiscal.txt"), "Cota de impozit pe venit este 10%, regim fiscal.")

	var prompts []string
	srv := fakeOllama(t, "Cota este 10%.", &prompts)

	out, err := execute(t, "", "sync", "--base", base)
	require.NoError(t, err)
	assert.Contains(t, out, "1 documents, 1 passages.")
	assert.FileExists(t, filepath.Join(base, "dataset_ai.jsonl"))

	out, err = execute(t, "", "ask", "--base", base, "--ollama-url", srv.URL, "impozit", "venit", "fiscal")
	require.NoError(t, err)
	assert.Contains(t, out, "Cota este 10%.")

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "[SURSA: codul_fiscal.txt]")
	assert.Contains(t, prompts[0], "Întrebare: impozit venit fiscal")
}

func TestAskCmd_OllamaDown(t *testing.T) {
	base := setupCLI(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := execute(t, "", "ask", "--base", base, "--ollama-url", url, "impozit")
	assert.Error(t, err)
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	setupCLI(t)
	_, err := execute(t, "", "ask")
	assert.Error(t, err)
}

func TestAddCmd(t *testing.T) {
	base := setupCLI(t)
	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/RezultateCautare" {
			w.Write([]byte(`<a href="/Public/DetaliiDocument/7">Regulament</a>`))
			return
		}
		w.Write([]byte(`<div id="divTextAct"><p>Articolul 1</p></div>`))
	}))
	defer portal.Close()
	t.Setenv("LEGIS_PORTAL_URL", portal.URL)

	out, err := execute(t, "", "add", "--base", base, "-i", "Regulamentul", "GDPR")
	require.NoError(t, err)

	path := filepath.Join(base, "EU", "Regulamentul GDPR.txt")
	assert.Contains(t, out, "Saved "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Articolul 1", string(data))
}

func TestRootCmd_RunsMenu(t *testing.T) {
	base := setupCLI(t)
	var prompts []string
	srv := fakeOllama(t, "", &prompts)

	out, err := execute(t, "4\n", "--base", base, "--ollama-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "1. Add act | 2. Sync | 3. Ask | 4. Exit")
	assert.DirExists(t, base)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	setupCLI(t)
	t.Setenv("CHUNK_OVERLAP", "5000")

	_, err := execute(t, "", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHUNK_OVERLAP")
}
