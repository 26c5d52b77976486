package server

import (
	"github.com/kobzarvs/pagedit/internal/dom"
)

// Inbound message types sent by the client.
const (
	msgTool        = "tool"
	msgClick       = "click"
	msgBlur        = "blur"
	msgResizeStart = "resize.start"
	msgResizeMove  = "resize.move"
	msgResizeEnd   = "resize.end"
	msgColor       = "color"
	msgImage       = "image"
	msgImageFile   = "image.file"
	msgButtons     = "buttons"
	msgClone       = "clone"
	msgUndo        = "undo"
	msgRedo        = "redo"
	msgKey         = "key"
	msgSave        = "save"
	msgPage        = "page"
	msgPublish     = "publish"
)

// Outbound message types.
const (
	outState  = "state"
	outNotice = "notice"
	outError  = "error"
)

// request is one client event. Only the fields relevant to Type are set.
type request struct {
	Type   string   `json:"type"`
	Tool   string   `json:"tool,omitempty"`
	Path   dom.Path `json:"path,omitempty"`
	X      int      `json:"x,omitempty"`
	Y      int      `json:"y,omitempty"`
	Width  int      `json:"width,omitempty"`
	Height int      `json:"height,omitempty"`
	HTML   *string  `json:"html,omitempty"`
	Mime   string   `json:"mime,omitempty"`
	Data   string   `json:"data,omitempty"` // base64 file content
	Combo  string   `json:"combo,omitempty"`
	Page   string   `json:"page,omitempty"`
}

// state is the full editor view after an event.
type state struct {
	Type         string   `json:"type"`
	Session      string   `json:"session"`
	Page         string   `json:"page"`
	Tool         string   `json:"tool"`
	Head         string   `json:"head"`
	Body         string   `json:"body"`
	HistoryIndex int      `json:"history_index"`
	HistoryLen   int      `json:"history_len"`
	CanUndo      bool     `json:"can_undo"`
	CanRedo      bool     `json:"can_redo"`
	Selected     dom.Path `json:"selected"`
	Focus        dom.Path `json:"focus"`
	Resizing     bool     `json:"resizing"`
	Picker       *picker  `json:"picker,omitempty"`
	Keys         []string `json:"keys"`
	Consumed     bool     `json:"consumed"`
	Notices      []string `json:"notices,omitempty"`
}

type picker struct {
	Accept string `json:"accept"`
}

// notice carries messages produced outside the event loop, and protocol
// errors.
type notice struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Message string `json:"message"`
}
