package editor

import (
	"golang.org/x/net/html"

	"github.com/kobzarvs/pagedit/internal/dom"
	"github.com/kobzarvs/pagedit/internal/logger"
)

// dragSession tracks one press-move-release on the resize handle.
type dragSession struct {
	el             *html.Node
	startX, startY int
	startW, startH int
}

// attachHandle gives the current selection a resize handle. Any existing
// handle is removed first, so at most one exists. The handle is a span so
// the client's HTML parser keeps it inside paragraphs and headings.
func (s *Session) attachHandle() {
	s.removeHandles()
	el := s.selected
	if el == nil {
		return
	}
	h := chromeElement(s.doc, "span", chromeHandle)
	dom.SetAttr(h, "class", "resize-handle")
	dom.SetStyle(h,
		"display", "block",
		"width", "10px",
		"height", "10px",
		"background", "red",
		"position", "absolute",
		"right", "0",
		"bottom", "0",
		"cursor", "se-resize",
		"z-index", "9999",
	)
	if p := dom.StyleProp(el, "position"); p == "" || p == "static" {
		dom.SetStyle(el, "position", "relative")
	}
	if voidAtoms[el.DataAtom] {
		dom.InsertAfter(el, h)
	} else {
		el.AppendChild(h)
	}
	s.handle = h
}

func (s *Session) removeHandles() {
	s.handle = nil
	if s.doc == nil {
		return
	}
	for _, h := range dom.FindAll(s.doc.Body(), isHandle) {
		dom.Remove(h)
	}
}

func isHandle(n *html.Node) bool {
	v, _ := dom.Attr(n, dom.ChromeAttr)
	return v == chromeHandle
}

// Handle returns the current resize handle, or nil.
func (s *Session) Handle() *html.Node { return s.handle }

// BeginResize starts a drag on the handle at pointer (x, y). width and
// height are the element's rendered size as measured by the client; when
// either is not positive the inline style is used. A press always starts
// a fresh session.
func (s *Session) BeginResize(x, y, width, height int) bool {
	if s.selected == nil || s.handle == nil {
		return false
	}
	if width <= 0 {
		width, _ = dom.ParsePx(dom.StyleProp(s.selected, "width"))
	}
	if height <= 0 {
		height, _ = dom.ParsePx(dom.StyleProp(s.selected, "height"))
	}
	s.drag = &dragSession{
		el:     s.selected,
		startX: x,
		startY: y,
		startW: width,
		startH: height,
	}
	s.trace("resize_start")
	return true
}

// PointerMove updates the dragged element to start size plus pointer delta.
func (s *Session) PointerMove(x, y int) {
	d := s.drag
	if d == nil {
		return
	}
	w := d.startW + (x - d.startX)
	h := d.startH + (y - d.startY)
	if floor := s.cfg.Editor.MinSize; floor > 0 {
		w = max(w, floor)
		h = max(h, floor)
	}
	dom.SetStyle(d.el, "width", dom.Px(w), "height", dom.Px(h))
}

// PointerUp ends the drag. One snapshot is committed if a drag was active.
func (s *Session) PointerUp() {
	d := s.drag
	s.drag = nil
	if d == nil {
		return
	}
	s.trace("resize_end")
	logger.Debug("resize committed", "page", s.page,
		"width", dom.StyleProp(d.el, "width"), "height", dom.StyleProp(d.el, "height"))
	s.commit("resize")
}
