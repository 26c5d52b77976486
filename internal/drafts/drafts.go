// Package drafts persists per-page editable-root content across restarts.
package drafts

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store maps a page identifier to that page's saved editable-root markup.
// Implementations persist synchronously and are safe for concurrent use.
type Store interface {
	Get(page string) (string, bool)
	Set(page, content string) error
	Delete(page string) error
	Pages() ([]string, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend. An empty path uses the default
// location under the XDG state directory.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendFile:
		if path == "" {
			p, err := defaultPath("drafts.json")
			if err != nil {
				return nil, err
			}
			path = p
		}
		return OpenFile(path)
	case BackendSQLite:
		if path == "" {
			p, err := defaultPath("drafts.db")
			if err != nil {
				return nil, err
			}
			path = p
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown drafts backend: %s", backend)
	}
}

func defaultPath(name string) (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "pagedit", name), nil
}
