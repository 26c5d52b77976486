package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kobzarvs/pagedit/internal/drafts"
	"github.com/kobzarvs/pagedit/internal/publish"
	"github.com/kobzarvs/pagedit/internal/templates"
)

func setupApp(t *testing.T, endpoint string) *App {
	t.Helper()
	dir := t.TempDir()
	tmplDir := filepath.Join(dir, "templates")
	if err := os.MkdirAll(tmplDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"index.html": `<div id="index"><p>home</p></div>`,
		"style.css":  `p { color: red; }`,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(tmplDir, name), []byte(data), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cfgPath := filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf(`
[templates]
dir = %q

[drafts]
backend = "sqlite"
path = %q

[publish]
endpoint = %q
project-name = "Demo"

[log]
file = %q
`, tmplDir, filepath.Join(dir, "drafts.db"), endpoint, filepath.Join(dir, "pagedit.log"))
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	a, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNewUsesConfig(t *testing.T) {
	a := setupApp(t, "http://127.0.0.1:1/publish")
	if a.Config().Drafts.Backend != drafts.BackendSQLite {
		t.Fatalf("backend = %q", a.Config().Drafts.Backend)
	}
	if a.Config().Publish.ProjectName != "Demo" {
		t.Fatalf("project = %q", a.Config().Publish.ProjectName)
	}
	a.SetAddr("127.0.0.1:0")
	if a.Config().Server.Addr != "127.0.0.1:0" {
		t.Fatalf("addr = %q", a.Config().Server.Addr)
	}
}

func TestPublishRestoresDraft(t *testing.T) {
	var got publish.Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Published!"})
	}))
	defer srv.Close()

	a := setupApp(t, srv.URL)
	if err := a.Drafts().Set("index", "<p>from draft</p>"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	msg, err := a.Publish(context.Background(), "index")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if msg != "Published!" {
		t.Fatalf("message = %q", msg)
	}
	if got.ProjectName != "Demo" || !strings.Contains(got.HTML, "from draft") {
		t.Fatalf("payload project=%q html=%q", got.ProjectName, got.HTML)
	}
	if strings.Contains(got.HTML, "data-pagedit") || strings.Contains(got.CSS, "data-pagedit") {
		t.Fatalf("editor chrome published")
	}
	if got.CSS != "p { color: red; }\n" {
		t.Fatalf("css = %q", got.CSS)
	}
}

func TestPublishUnknownPage(t *testing.T) {
	a := setupApp(t, "http://127.0.0.1:1/publish")
	_, err := a.Publish(context.Background(), "missing")
	if !errors.Is(err, templates.ErrUnknownPage) {
		t.Fatalf("err = %v, want ErrUnknownPage", err)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	a := setupApp(t, "http://127.0.0.1:1/publish")
	a.SetAddr("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Serve(ctx); err != nil {
		t.Fatalf("Serve: %v", err)
	}
}
