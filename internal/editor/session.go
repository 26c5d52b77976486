// Package editor implements the page editing engine: tool activation,
// selection, in-place text editing, resizing, direct-edit controllers and
// undo/redo over a parsed HTML document.
//
// A Session is driven by one goroutine. Every exported method is one
// event handler that runs to completion before the next event.
package editor

import (
	"errors"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/kobzarvs/pagedit/internal/config"
	"github.com/kobzarvs/pagedit/internal/dom"
	"github.com/kobzarvs/pagedit/internal/history"
	"github.com/kobzarvs/pagedit/internal/logger"
	"github.com/kobzarvs/pagedit/internal/templates"
)

// Precondition failures. Each one is also reported as a notice.
var (
	ErrNoDocument     = errors.New("no document loaded")
	ErrNoSelection    = errors.New("select an element first")
	ErrWrongSelection = errors.New("selection does not support this action")
	ErrNoContainer    = errors.New("no repeating container found")
	ErrNoItem         = errors.New("no repeating item found")
	ErrNoEditableRoot = errors.New("no editable root found")
	ErrNoPicker       = errors.New("no file picker open")
	ErrNotImage       = errors.New("file is not an image")
	ErrNoSlide        = errors.New("slideshow has no slides")
)

// Chrome attributes. Everything under dom.ChromePrefix stays out of
// snapshots, drafts, clones and published pages.
const (
	attrSelected = dom.ChromePrefix + "selected"
	attrSwatch   = dom.ChromePrefix + "swatch"
	attrVariant  = dom.ChromePrefix + "variant"

	chromeHandle      = "handle"
	chromeColorPanel  = "color-panel"
	chromeButtonPanel = "button-panel"
	chromeStyle       = "style"
)

const editorCSS = `[data-pagedit-selected]{outline:2px dashed red}`

// DraftStore is the part of the draft store the session uses.
type DraftStore interface {
	Get(page string) (string, bool)
	Set(page, content string) error
}

// FilePicker asks the client to open a native file chooser.
type FilePicker struct {
	Accept string
}

// Session is one user's editing state over one document at a time.
type Session struct {
	cfg    config.Config
	drafts DraftStore
	loader templates.Loader
	policy *bluemonday.Policy

	doc     *dom.Document
	page    string
	history *history.Store

	tool        Tool
	selected    *html.Node
	kind        Kind
	handle      *html.Node
	focused     *html.Node
	pendingBlur map[*html.Node]struct{}
	drag        *dragSession
	picker      *FilePicker

	colorPanel  panel
	buttonPanel panel

	notices    []string
	actionHook func(action string)
}

// New creates a session. drafts and loader may be nil in tests that attach
// documents directly.
func New(cfg config.Config, drafts DraftStore, loader templates.Loader) *Session {
	var dw history.DraftWriter
	if drafts != nil {
		dw = drafts
	}
	keys := make(config.Keymap, len(cfg.Keymap))
	for k, a := range cfg.Keymap {
		keys[NormalizeKey(k)] = a
	}
	cfg.Keymap = keys
	return &Session{
		cfg:         cfg,
		drafts:      drafts,
		loader:      loader,
		policy:      editPolicy(),
		history:     history.New(cfg.Editor.EditableRoot, dw, cfg.Editor.HistoryLimit),
		pendingBlur: make(map[*html.Node]struct{}),
	}
}

// editPolicy is applied to markup the client sends back from an in-place
// edit. It strips scripts and event handlers but keeps everything the
// templates and the editor itself put into the page: form controls, data
// URL images, data attributes, classes and inline styles.
func editPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowStyling()
	p.AllowDataAttributes()
	p.AllowDataURIImages()
	p.AllowAttrs("style", "contenteditable").Globally()
	p.AllowAttrs("target").OnElements("a")
	p.AllowElements("button", "form", "fieldset", "legend", "input", "label",
		"select", "option", "optgroup", "textarea")
	p.AllowAttrs("type", "name", "value", "checked", "disabled", "placeholder",
		"readonly", "required", "selected", "multiple", "for", "rows", "cols",
		"maxlength", "min", "max", "step").
		OnElements("button", "input", "label", "select", "option", "textarea")
	p.AllowNoAttrs().OnElements("a", "label", "input", "form", "legend")
	return p
}

func (s *Session) Document() *dom.Document  { return s.doc }
func (s *Session) Page() string             { return s.page }
func (s *Session) Tool() Tool               { return s.tool }
func (s *Session) Selected() *html.Node     { return s.selected }
func (s *Session) SelectedKind() Kind       { return s.kind }
func (s *Session) Focused() *html.Node      { return s.focused }
func (s *Session) History() *history.Store  { return s.history }
func (s *Session) Picker() *FilePicker      { return s.picker }
func (s *Session) Resizing() bool           { return s.drag != nil }
func (s *Session) ColorPanelOpen() bool     { return s.colorPanel.IsOpen() }
func (s *Session) ButtonPanelVisible() bool { return s.buttonPanel.Visible() }
func (s *Session) Config() config.Config    { return s.cfg }

// TakeNotices returns and clears the pending user-visible messages.
func (s *Session) TakeNotices() []string {
	n := s.notices
	s.notices = nil
	return n
}

func (s *Session) notify(msg string) {
	s.notices = append(s.notices, msg)
}

// fail reports a precondition failure and returns it.
func (s *Session) fail(err error, msg string) error {
	s.notify(msg)
	logger.Debug("action rejected", "page", s.page, "error", err)
	return err
}

func (s *Session) trace(action string) {
	if s.actionHook != nil {
		s.actionHook(action)
	}
}

// commit records one history snapshot after a mutation.
func (s *Session) commit(reason string) {
	if s.doc == nil {
		return
	}
	if err := s.history.Commit(s.doc); err != nil {
		logger.Error("history commit failed", "page", s.page, "reason", reason, "error", err)
		s.notify("Could not save draft: " + err.Error())
	}
	logger.Debug("history commit", "page", s.page, "reason", reason,
		"index", s.history.Index(), "len", s.history.Len())
}

func chromeElement(doc *dom.Document, tag, role string) *html.Node {
	n := doc.CreateElement(tag)
	dom.SetAttr(n, dom.ChromeAttr, role)
	return n
}

// closestWithAttr finds n or its nearest ancestor carrying key.
func closestWithAttr(n *html.Node, key string) (*html.Node, string) {
	for c := n; c != nil; c = c.Parent {
		if v, ok := dom.Attr(c, key); ok {
			return c, v
		}
	}
	return nil, ""
}
