// Package history keeps the linear undo log of an edited page.
package history

import (
	"errors"
	"fmt"

	"github.com/kobzarvs/pagedit/internal/dom"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DraftWriter receives the editable-root extract on every commit.
type DraftWriter interface {
	Set(page, content string) error
}

// Store is an append-only, truncating log of body snapshots.
// It is not safe for concurrent use; a session drives it from one goroutine.
type Store struct {
	stack  []string
	index  int
	max    int
	page   string
	rootID string
	drafts DraftWriter
}

// New creates a store. maxEntries <= 0 keeps every snapshot.
func New(rootID string, drafts DraftWriter, maxEntries int) *Store {
	return &Store{
		index:  -1,
		max:    maxEntries,
		rootID: rootID,
		drafts: drafts,
	}
}

// Reset empties the log and binds it to page.
func (s *Store) Reset(page string) {
	s.stack = nil
	s.index = -1
	s.page = page
}

func (s *Store) Page() string { return s.page }
func (s *Store) Len() int     { return len(s.stack) }

// Index returns the current position, -1 when empty.
func (s *Store) Index() int { return s.index }

func (s *Store) CanUndo() bool { return s.index > 0 }
func (s *Store) CanRedo() bool { return s.index < len(s.stack)-1 }

// Commit captures the body of doc as the new current snapshot. Snapshots
// after the current position are discarded first.
func (s *Store) Commit(doc *dom.Document) error {
	snap, err := doc.BodyHTML()
	if err != nil {
		return fmt.Errorf("snapshot body: %w", err)
	}
	s.stack = append(s.stack[:s.index+1], snap)
	s.index++

	if s.max > 0 && len(s.stack) > s.max {
		excess := len(s.stack) - s.max
		s.stack = append([]string(nil), s.stack[excess:]...)
		s.index -= excess
	}
	return s.writeDraft(doc)
}

func (s *Store) writeDraft(doc *dom.Document) error {
	if s.drafts == nil {
		return nil
	}
	root := doc.GetElementByID(s.rootID)
	if root == nil {
		return nil
	}
	content, err := dom.InnerHTML(root, true)
	if err != nil {
		return fmt.Errorf("render editable root: %w", err)
	}
	if err := s.drafts.Set(s.page, content); err != nil {
		return fmt.Errorf("write draft %q: %w", s.page, err)
	}
	return nil
}

// Undo steps back one snapshot and restores it into doc.
func (s *Store) Undo(doc *dom.Document) error {
	if !s.CanUndo() {
		return ErrNothingToUndo
	}
	s.index--
	return s.restore(doc)
}

// Redo steps forward one snapshot and restores it into doc.
func (s *Store) Redo(doc *dom.Document) error {
	if !s.CanRedo() {
		return ErrNothingToRedo
	}
	s.index++
	return s.restore(doc)
}

func (s *Store) restore(doc *dom.Document) error {
	if err := doc.SetBodyHTML(s.stack[s.index]); err != nil {
		return fmt.Errorf("restore snapshot %d: %w", s.index, err)
	}
	return nil
}
