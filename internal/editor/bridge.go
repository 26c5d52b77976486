package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/kobzarvs/pagedit/internal/dom"
	"github.com/kobzarvs/pagedit/internal/history"
	"github.com/kobzarvs/pagedit/internal/logger"
)

// LoadPage switches the session to page. The outgoing page's editable
// root is saved first. A failed load keeps the current document.
func (s *Session) LoadPage(ctx context.Context, page string) error {
	s.trace("load_page")
	s.saveOutgoingDraft()
	if s.loader == nil {
		return s.fail(ErrNoDocument, "Failed to load template.")
	}
	p, err := s.loader.Load(ctx, page)
	if err != nil {
		logger.Error("template load failed", "page", page, "error", err)
		s.notify("Failed to load template.")
		return fmt.Errorf("load page %q: %w", page, err)
	}
	doc, err := dom.ParseString(p.Markup)
	if err != nil {
		logger.Error("template parse failed", "page", page, "error", err)
		s.notify("Failed to load template.")
		return fmt.Errorf("load page %q: %w", page, err)
	}
	return s.Attach(page, doc)
}

func (s *Session) saveOutgoingDraft() {
	if s.doc == nil || s.drafts == nil {
		return
	}
	root := s.doc.GetElementByID(s.cfg.Editor.EditableRoot)
	if root == nil {
		return
	}
	content, err := dom.InnerHTML(root, true)
	if err == nil {
		err = s.drafts.Set(s.page, content)
	}
	if err != nil {
		logger.Warn("saving outgoing draft failed", "page", s.page, "error", err)
	}
}

// Attach makes doc the edited document. References into the previous
// document are dropped, the stored draft for page is restored into the
// editable root, and snapshot 0 is committed on a fresh history.
func (s *Session) Attach(page string, doc *dom.Document) error {
	s.invalidate()
	s.doc = doc
	s.page = page
	s.injectEditorStyle()

	if s.drafts != nil {
		if draft, ok := s.drafts.Get(page); ok && draft != "" {
			if root := doc.GetElementByID(s.cfg.Editor.EditableRoot); root != nil {
				if err := dom.SetInnerHTML(root, draft); err != nil {
					logger.Warn("stored draft not restored", "page", page, "error", err)
				}
			}
		}
	}

	s.history.Reset(page)
	s.commit("attach")
	logger.Info("document attached", "page", page)
	return nil
}

func (s *Session) injectEditorStyle() {
	head := s.doc.Head()
	if head == nil {
		return
	}
	st := chromeElement(s.doc, "style", chromeStyle)
	dom.SetTextContent(st, editorCSS)
	head.AppendChild(st)
}

// Undo restores the previous snapshot. It is a no-op at the first one.
func (s *Session) Undo() {
	s.trace("undo")
	s.step(s.history.Undo, history.ErrNothingToUndo)
}

// Redo restores the next snapshot. It is a no-op at the last one.
func (s *Session) Redo() {
	s.trace("redo")
	s.step(s.history.Redo, history.ErrNothingToRedo)
}

func (s *Session) step(move func(*dom.Document) error, noop error) {
	if s.doc == nil {
		return
	}
	err := move(s.doc)
	if errors.Is(err, noop) {
		return
	}
	// The body was replaced, so every held reference is stale.
	s.invalidate()
	if err != nil {
		logger.Error("history restore failed", "page", s.page, "error", err)
		s.notify("Could not restore history.")
	}
}

// SaveDraft stores the editable root for the current page.
func (s *Session) SaveDraft() error {
	s.trace("save_draft")
	if s.doc == nil {
		return s.fail(ErrNoDocument, "No page loaded!")
	}
	root := s.doc.GetElementByID(s.cfg.Editor.EditableRoot)
	if root == nil {
		return s.fail(ErrNoEditableRoot, "Nothing to save on this page.")
	}
	if s.drafts == nil {
		return nil
	}
	content, err := dom.InnerHTML(root, true)
	if err != nil {
		return err
	}
	if err := s.drafts.Set(s.page, content); err != nil {
		s.notify("Could not save draft: " + err.Error())
		return err
	}
	s.notify("Draft saved locally!")
	return nil
}
