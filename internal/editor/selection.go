package editor

import (
	"golang.org/x/net/html"

	"github.com/kobzarvs/pagedit/internal/dom"
	"github.com/kobzarvs/pagedit/internal/logger"
)

// Click routes a click inside the document. It reports whether the click
// was consumed, in which case the client suppresses its default behavior.
func (s *Session) Click(target *html.Node, pageX, pageY int) bool {
	if s.doc == nil || target == nil {
		return false
	}
	// Panel clicks never reach the tools.
	if dom.IsChrome(target) {
		s.clickChrome(target)
		return true
	}
	switch s.tool {
	case ToolText:
		s.insertText(pageX, pageY)
		return false
	case ToolSelect:
		s.selectNode(target)
		return true
	}
	return false
}

func (s *Session) clickChrome(target *html.Node) {
	if _, color := closestWithAttr(target, attrSwatch); color != "" {
		s.PickColor(color)
		return
	}
	if _, variant := closestWithAttr(target, attrVariant); variant != "" {
		s.PickVariant(variant)
	}
}

// insertText places a new editable text node at the click position, then
// returns the tool to none.
func (s *Session) insertText(x, y int) {
	s.trace("insert_text")
	n := s.doc.CreateElement("div")
	dom.SetTextContent(n, s.cfg.Editor.Placeholder)
	dom.SetAttr(n, "contenteditable", "true")
	dom.SetAttr(n, attrEditable, "true")
	dom.SetStyle(n,
		"position", "absolute",
		"left", dom.Px(x),
		"top", dom.Px(y),
		"font-size", "16px",
		"color", "black",
		"outline", "none",
		"cursor", "text",
	)
	s.doc.Body().AppendChild(n)
	s.focused = n
	s.commit("insert text")
	s.Deactivate()
}

// selectNode applies a selection request. A different previous selection
// loses its marker and handle before eligibility is checked; an ineligible
// target then leaves the selection reference as it was.
func (s *Session) selectNode(n *html.Node) {
	if s.selected != nil && s.selected != n {
		s.clearSelection()
	}
	kind := Classify(n, s.cfg.Editor.Slideshow)
	if kind == KindNone {
		return
	}
	s.trace("select")
	s.selected = n
	s.kind = kind
	dom.SetAttr(n, attrSelected, "true")
	s.attachHandle()

	if kind == KindText {
		dom.SetAttr(n, "contenteditable", "true")
		dom.SetAttr(n, attrEditable, "true")
		s.focused = n
		s.pendingBlur[n] = struct{}{}
	}
	logger.Debug("selected", "page", s.page, "tag", n.Data, "kind", kind.String())
}

// clearSelection removes the marker and handle of the current selection.
// The selection reference itself is left to the caller.
func (s *Session) clearSelection() {
	if s.selected != nil {
		dom.RemoveAttr(s.selected, attrSelected)
	}
	s.removeHandles()
	s.drag = nil
}

// Blur ends an in-place edit of n. markup, when non-nil, is the edited
// content reported by the client; it is sanitized and written back. A
// node selected for text editing commits exactly once per selection.
func (s *Session) Blur(n *html.Node, markup *string) {
	if s.doc == nil || n == nil {
		return
	}
	if s.focused == n {
		s.focused = nil
	}
	if markup != nil && isEditable(n) {
		s.applyEdit(n, *markup)
	}
	if _, ok := s.pendingBlur[n]; !ok {
		return
	}
	delete(s.pendingBlur, n)
	s.trace("edit_end")
	s.commit("edit end")
}

func (s *Session) applyEdit(n *html.Node, markup string) {
	// Chrome is dropped before sanitizing, which would otherwise strip
	// only its attributes and keep the element.
	scratch := dom.Clone(n, false)
	if err := dom.SetInnerHTML(scratch, markup); err != nil {
		logger.Warn("edited markup rejected", "page", s.page, "error", err)
		return
	}
	unchromed, err := dom.InnerHTML(scratch, true)
	if err != nil {
		logger.Warn("edited markup rejected", "page", s.page, "error", err)
		return
	}
	clean := s.policy.Sanitize(unchromed)
	if err := dom.SetInnerHTML(n, clean); err != nil {
		logger.Warn("edited markup rejected", "page", s.page, "error", err)
		return
	}
	if s.selected == n {
		s.attachHandle()
	}
}

// invalidate drops every reference into the current body. It runs after
// the body is replaced by undo, redo or a page switch.
func (s *Session) invalidate() {
	s.selected = nil
	s.kind = KindNone
	s.handle = nil
	s.focused = nil
	s.drag = nil
	s.picker = nil
	s.pendingBlur = make(map[*html.Node]struct{})
	s.colorPanel.forget()
	s.buttonPanel.forget()
}
