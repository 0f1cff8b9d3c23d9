package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expertree/internal/author"
	"expertree/internal/cli"
	"expertree/internal/config"
	"expertree/internal/logging"
	"expertree/pkg/store"
)

// fakeOllama serves the three endpoints the session touches.
func fakeOllama(t *testing.T, models []string, reply string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"version": "0.0-test"})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		entries := make([]map[string]string, len(models))
		for i, name := range models {
			entries[i] = map[string]string{"name": name}
		}
		json.NewEncoder(w).Encode(map[string]any{"models": entries})
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt, _ := req["prompt"].(string)
		assert.Contains(t, prompt, "You are an expert in")
		json.NewEncoder(w).Encode(map[string]string{"response": reply})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, host string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Host = host
	cfg.TemplatesDir = filepath.Join(t.TempDir(), "templates")
	cfg.HistoryDir = filepath.Join(t.TempDir(), "history")
	cfg.TimeoutSeconds = 5
	cfg.Retries = 0
	cfg.NoColor = true
	return cfg
}

func writeTemplate(t *testing.T, cfg config.Config, expert string) string {
	t.Helper()
	doc := author.BuildExpertTemplate(expert, time.Now())
	path, err := store.New().WriteDocument(doc, cfg.TemplatesDir, "tree")
	require.NoError(t, err)
	return path
}

func savedFiles(t *testing.T, cfg config.Config) []string {
	t.Helper()
	return store.New().ListCandidates(cfg.HistoryDir, ".json")
}

func TestScriptedSession(t *testing.T) {
	srv := fakeOllama(t, []string{"gemma3"}, "Cells are the unit of life.")
	cfg := testConfig(t, srv.URL)
	path := writeTemplate(t, cfg, "Biology")

	in := strings.NewReader("tell me about cells\nexit\n")
	var out bytes.Buffer
	s := cli.NewSession(cfg, in, &out, logging.NewNop())

	err := s.Run(context.Background(), cli.Options{Path: path, Model: "gemma3"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Ollama is running")
	assert.Contains(t, out.String(), "Loaded decision tree for expert type: Biology")
	assert.Contains(t, out.String(), "Expert:")
	assert.Contains(t, out.String(), "Cells are the unit of life.")
	assert.Contains(t, out.String(), "Thank you for using expertree")

	// Exit saved the conversation with the free-text turn recorded.
	files := savedFiles(t, cfg)
	require.Len(t, files, 1)
	saved, err := store.New().Load(filepath.Join(cfg.HistoryDir, files[0]))
	require.NoError(t, err)
	require.Len(t, saved.ConversationHistory, 1)
	assert.Equal(t, "tell me about cells", saved.ConversationHistory[0].UserResponse)
}

func TestSessionInteractiveSelection(t *testing.T) {
	srv := fakeOllama(t, []string{"llama3", "gemma3"}, "ok")
	cfg := testConfig(t, srv.URL)
	writeTemplate(t, cfg, "Biology")

	// Pick template 1, accept the recommended model, then exit.
	in := strings.NewReader("1\n\nexit\n")
	var out bytes.Buffer
	s := cli.NewSession(cfg, in, &out, logging.NewNop())

	err := s.Run(context.Background(), cli.Options{})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Select a decision tree template")
	assert.Contains(t, out.String(), "gemma3 (default)")
	assert.Contains(t, out.String(), "Using model: gemma3")
}

func TestSessionUnknownPresetFallsBackToMenu(t *testing.T) {
	srv := fakeOllama(t, []string{"gemma3"}, "ok")
	cfg := testConfig(t, srv.URL)
	path := writeTemplate(t, cfg, "Biology")

	in := strings.NewReader("1\nexit\n")
	var out bytes.Buffer
	s := cli.NewSession(cfg, in, &out, logging.NewNop())

	err := s.Run(context.Background(), cli.Options{Path: path, Model: "mistral"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `Model "mistral" is not available.`)
	assert.Contains(t, out.String(), "Using model: gemma3")
}

func TestSessionSaveCommandKeepsGoing(t *testing.T) {
	srv := fakeOllama(t, []string{"gemma3"}, "noted")
	cfg := testConfig(t, srv.URL)
	path := writeTemplate(t, cfg, "Biology")

	in := strings.NewReader("first thought\nsave\nsecond thought\nexit\n")
	var out bytes.Buffer
	s := cli.NewSession(cfg, in, &out, logging.NewNop())

	require.NoError(t, s.Run(context.Background(), cli.Options{Path: path, Model: "gemma3"}))

	// One save mid-session, one on exit; each file has a fresh timestamped name
	// so both may or may not collide within a second. At least one must exist
	// and the final one carries both turns.
	files := savedFiles(t, cfg)
	require.NotEmpty(t, files)

	var longest int
	for _, name := range files {
		saved, err := store.New().Load(filepath.Join(cfg.HistoryDir, name))
		require.NoError(t, err)
		if n := len(saved.ConversationHistory); n > longest {
			longest = n
		}
	}
	assert.Equal(t, 2, longest, "commands are not recorded as turns")
}

func TestSessionEOFSavesAndExitsCleanly(t *testing.T) {
	srv := fakeOllama(t, []string{"gemma3"}, "ok")
	cfg := testConfig(t, srv.URL)
	path := writeTemplate(t, cfg, "Biology")

	// Input ends without an exit command.
	in := strings.NewReader("hello\n")
	var out bytes.Buffer
	s := cli.NewSession(cfg, in, &out, logging.NewNop())

	err := s.Run(context.Background(), cli.Options{Path: path, Model: "gemma3"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Goodbye!")
	assert.NotEmpty(t, savedFiles(t, cfg))
}

func TestSessionInterruptSaves(t *testing.T) {
	srv := fakeOllama(t, []string{"gemma3"}, "ok")
	cfg := testConfig(t, srv.URL)
	path := writeTemplate(t, cfg, "Biology")

	ctx, cancel := context.WithCancel(context.Background())
	// A reader that never delivers a line, like an idle terminal.
	in, _ := newBlockedReader()
	var out bytes.Buffer
	s := cli.NewSession(cfg, in, &out, logging.NewNop())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, cli.Options{Path: path, Model: "gemma3"}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop after cancellation")
	}
	assert.Contains(t, out.String(), "Interrupted. Saving conversation...")
	assert.NotEmpty(t, savedFiles(t, cfg))
}

func TestSessionUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close()

	cfg := testConfig(t, srv.URL)
	var out bytes.Buffer
	s := cli.NewSession(cfg, strings.NewReader(""), &out, logging.NewNop())

	err := s.Run(context.Background(), cli.Options{})
	require.Error(t, err)
	assert.Contains(t, out.String(), "Could not connect to Ollama")
}

func TestSessionNoModels(t *testing.T) {
	srv := fakeOllama(t, nil, "")
	cfg := testConfig(t, srv.URL)

	var out bytes.Buffer
	s := cli.NewSession(cfg, strings.NewReader(""), &out, logging.NewNop())

	err := s.Run(context.Background(), cli.Options{})
	require.Error(t, err)
	assert.Contains(t, out.String(), "No models found")
}

func TestSessionNoTemplates(t *testing.T) {
	srv := fakeOllama(t, []string{"gemma3"}, "")
	cfg := testConfig(t, srv.URL)

	var out bytes.Buffer
	s := cli.NewSession(cfg, strings.NewReader(""), &out, logging.NewNop())

	err := s.Run(context.Background(), cli.Options{})
	require.Error(t, err)
	assert.Contains(t, out.String(), "No templates found")
}

// newBlockedReader returns a reader whose Read blocks until the returned
// close func is called.
func newBlockedReader() (*blockedReader, func()) {
	ch := make(chan struct{})
	return &blockedReader{ch: ch}, func() { close(ch) }
}

type blockedReader struct{ ch chan struct{} }

func (r *blockedReader) Read(p []byte) (int, error) {
	<-r.ch
	return 0, nil
}
