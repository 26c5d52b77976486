package drafts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/kobzarvs/pagedit/internal/logger"
)

type fileData struct {
	Pages     map[string]string `json:"pages"`
	LastSaved time.Time         `json:"last_saved"`
}

// FileStore keeps every draft in one JSON file.
type FileStore struct {
	mu   sync.RWMutex
	data fileData
	path string
}

// OpenFile loads the drafts file at path, creating its directory.
// A missing file starts an empty store. A file that does not decode is
// moved aside to path.corrupt-<timestamp> so the next save cannot
// overwrite it.
func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create drafts directory: %w", err)
	}
	s := &FileStore{
		data: fileData{Pages: make(map[string]string)},
		path: path,
	}
	s.load()
	return s, nil
}

func (s *FileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return // No drafts yet
	}
	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		s.quarantine(err)
		return
	}
	if fd.Pages == nil {
		fd.Pages = make(map[string]string)
	}
	s.data = fd
}

func (s *FileStore) quarantine(cause error) {
	aside := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().Format("20060102-150405"))
	if err := os.Rename(s.path, aside); err != nil {
		logger.Error("corrupt drafts file could not be moved aside", "path", s.path, "error", err)
		return
	}
	logger.Warn("corrupt drafts file moved aside", "path", s.path, "moved_to", aside, "error", cause)
}

func (s *FileStore) Get(page string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data.Pages[page]
	return v, ok
}

// Set stores content for page and writes the file before returning.
func (s *FileStore) Set(page, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Pages[page] = content
	return s.saveLocked()
}

func (s *FileStore) Delete(page string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.Pages[page]; !ok {
		return nil
	}
	delete(s.data.Pages, page)
	return s.saveLocked()
}

func (s *FileStore) Pages() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pages := make([]string, 0, len(s.data.Pages))
	for p := range s.data.Pages {
		pages = append(pages, p)
	}
	sort.Strings(pages)
	return pages, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) saveLocked() error {
	s.data.LastSaved = time.Now()
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
