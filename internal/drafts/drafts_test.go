package drafts

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	if _, ok := s.Get("index"); ok {
		t.Fatalf("Get on empty store ok")
	}
	if err := s.Set("index", "<p>a</p>"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("product", "<p>b</p>"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("index", "<p>c</p>"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, ok := s.Get("index"); !ok || v != "<p>c</p>" {
		t.Fatalf("Get(index) = %q,%v", v, ok)
	}
	pages, err := s.Pages()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if !reflect.DeepEqual(pages, []string{"index", "product"}) {
		t.Fatalf("Pages = %v", pages)
	}
	if err := s.Delete("product"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Get("product"); ok {
		t.Fatalf("Get after Delete ok")
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "drafts.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	exerciseStore(t, s)

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok := reopened.Get("index"); !ok || v != "<p>c</p>" {
		t.Fatalf("reopened Get(index) = %q,%v", v, ok)
	}
}

func TestFileStoreMovesCorruptFileAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drafts.json")
	if err := os.WriteFile(path, []byte(`{"pages": {"index": "<p>kept`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, ok := s.Get("index"); ok {
		t.Fatalf("corrupt file decoded")
	}
	if err := s.Set("product", "<p>new</p>"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var aside string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "drafts.json.corrupt-") {
			aside = filepath.Join(dir, e.Name())
		}
	}
	if aside == "" {
		t.Fatalf("corrupt file not moved aside: %v", entries)
	}
	data, err := os.ReadFile(aside)
	if err != nil {
		t.Fatalf("read aside: %v", err)
	}
	if !strings.Contains(string(data), "<p>kept") {
		t.Fatalf("aside content = %q", data)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	exerciseStore(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if v, ok := reopened.Get("index"); !ok || v != "<p>c</p>" {
		t.Fatalf("reopened Get(index) = %q,%v", v, ok)
	}
}

func TestOpenBackends(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	for _, backend := range []string{"", BackendFile, BackendSQLite} {
		s, err := Open(backend, "")
		if err != nil {
			t.Fatalf("Open(%q): %v", backend, err)
		}
		if err := s.Set("index", "x"); err != nil {
			t.Fatalf("Open(%q) Set: %v", backend, err)
		}
		_ = s.Close()
	}
	if _, err := Open("redis", ""); err == nil {
		t.Fatalf("Open(redis) succeeded")
	}
}
