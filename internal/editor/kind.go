package editor

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kobzarvs/pagedit/internal/dom"
)

// Kind classifies a clicked element by what the editor can do with it.
type Kind int

const (
	KindNone      Kind = iota // not selectable
	KindText                  // text-bearing tag, edited in place
	KindButton                // button, accepts a variant class
	KindImage                 // img, accepts a new source
	KindSlideshow             // slideshow container, first slide accepts a new source
	KindEditable              // element already flagged directly-editable
	KindBlock                 // generic div container
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindButton:
		return "button"
	case KindImage:
		return "image"
	case KindSlideshow:
		return "slideshow"
	case KindEditable:
		return "editable"
	case KindBlock:
		return "block"
	default:
		return "none"
	}
}

// HasImage reports whether the image tool applies.
func (k Kind) HasImage() bool { return k == KindImage || k == KindSlideshow }

var textAtoms = map[atom.Atom]bool{
	atom.P:     true,
	atom.H1:    true,
	atom.H2:    true,
	atom.H3:    true,
	atom.H4:    true,
	atom.H5:    true,
	atom.H6:    true,
	atom.Span:  true,
	atom.A:     true,
	atom.Label: true,
}

// voidAtoms cannot hold children; the resize handle goes next to them.
var voidAtoms = map[atom.Atom]bool{
	atom.Img:   true,
	atom.Input: true,
	atom.Br:    true,
	atom.Hr:    true,
	atom.Embed: true,
}

const attrEditable = "data-editable"

func isEditable(n *html.Node) bool {
	v, _ := dom.Attr(n, attrEditable)
	return v == "true"
}

// Classify computes the kind of n once per click.
func Classify(n *html.Node, slideshowClass string) Kind {
	if !dom.IsElement(n) {
		return KindNone
	}
	switch {
	case textAtoms[n.DataAtom]:
		return KindText
	case n.DataAtom == atom.Button:
		return KindButton
	case n.DataAtom == atom.Img:
		return KindImage
	case slideshowClass != "" && dom.HasClass(n, slideshowClass):
		return KindSlideshow
	case isEditable(n):
		return KindEditable
	case n.DataAtom == atom.Div:
		return KindBlock
	}
	return KindNone
}
