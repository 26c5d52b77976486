package dom

import (
	"golang.org/x/net/html"
)

// Path addresses an element by the element-child indexes leading to it
// from the body. The browser client computes the same path from its own
// rendering of the body, so it survives the trip across the socket.
type Path []int

// PathOf returns the path of n below the document body. ok is false when
// n is not attached under the body.
func (d *Document) PathOf(n *html.Node) (Path, bool) {
	var rev Path
	for c := n; c != d.body; c = c.Parent {
		if c == nil || c.Parent == nil {
			return nil, false
		}
		rev = append(rev, elementIndex(c))
	}
	p := make(Path, len(rev))
	for i := range rev {
		p[i] = rev[len(rev)-1-i]
	}
	return p, true
}

// NodeAt resolves a path. An empty path is the body itself.
func (d *Document) NodeAt(p Path) *html.Node {
	n := d.body
	for _, idx := range p {
		n = nthElementChild(n, idx)
		if n == nil {
			return nil
		}
	}
	return n
}

func elementIndex(n *html.Node) int {
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		if IsElement(c) {
			i++
		}
	}
	return i
}

func nthElementChild(n *html.Node, idx int) *html.Node {
	if idx < 0 {
		return nil
	}
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !IsElement(c) {
			continue
		}
		if i == idx {
			return c
		}
		i++
	}
	return nil
}
