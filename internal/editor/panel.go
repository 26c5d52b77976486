package editor

import (
	"golang.org/x/net/html"

	"github.com/kobzarvs/pagedit/internal/dom"
)

// panel is a lazily created floating element owned by the session.
// It is either absent, or present and visible, or present and hidden.
type panel struct {
	node *html.Node
}

func (p *panel) IsOpen() bool { return p.node != nil }

func (p *panel) Visible() bool {
	return p.node != nil && dom.StyleProp(p.node, "display") != "none"
}

// Open appends node to parent and makes it the panel. An open panel is
// closed first so at most one instance exists.
func (p *panel) Open(parent, node *html.Node) {
	p.Close()
	parent.AppendChild(node)
	p.node = node
}

// Close removes the panel entirely.
func (p *panel) Close() {
	if p.node != nil {
		dom.Remove(p.node)
		p.node = nil
	}
}

func (p *panel) SetVisible(v bool) {
	if p.node == nil {
		return
	}
	if v {
		dom.SetStyle(p.node, "display", "block")
	} else {
		dom.SetStyle(p.node, "display", "none")
	}
}

func (p *panel) ToggleVisible() {
	p.SetVisible(!p.Visible())
}

// forget drops the reference without touching the tree. Used after the
// body has been replaced and the node is already gone.
func (p *panel) forget() { p.node = nil }
