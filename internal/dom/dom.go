// Package dom wraps golang.org/x/net/html trees with the small set of
// element operations the page editor needs.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ChromePrefix marks editor-only attributes. An element carrying
// ChromeAttr is editor chrome and is dropped from clean renders.
const (
	ChromePrefix = "data-pagedit-"
	ChromeAttr   = ChromePrefix + "chrome"
)

var ErrNoBody = errors.New("document has no body")

// Document is a parsed, mutable HTML document.
type Document struct {
	root *html.Node
	body *html.Node
	head *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	d := &Document{root: root}
	d.head = findAtom(root, atom.Head)
	d.body = findAtom(root, atom.Body)
	if d.body == nil {
		return nil, ErrNoBody
	}
	return d, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) Root() *html.Node { return d.root }
func (d *Document) Body() *html.Node { return d.body }
func (d *Document) Head() *html.Node { return d.head }

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *html.Node {
	return findAtom(d.root, atom.Html)
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string) *html.Node {
	a := atom.Lookup([]byte(tag))
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: a}
}

// GetElementByID finds the first element with the given id.
func (d *Document) GetElementByID(id string) *html.Node {
	return Find(d.root, func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return ok && v == id
	})
}

// BodyHTML renders the body children without editor chrome.
func (d *Document) BodyHTML() (string, error) {
	return InnerHTML(d.body, true)
}

// SetBodyHTML replaces the body children with parsed markup.
func (d *Document) SetBodyHTML(markup string) error {
	return SetInnerHTML(d.body, markup)
}

// Render writes the whole document. With clean set, chrome is omitted.
func (d *Document) Render(w io.Writer, clean bool) error {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if err := renderNode(w, c, clean); err != nil {
			return err
		}
	}
	return nil
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	return Find(n, func(c *html.Node) bool { return c.DataAtom == a })
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Find walks n depth-first and returns the first element matching fn.
func Find(n *html.Node, fn func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if IsElement(n) && fn(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := Find(c, fn); m != nil {
			return m
		}
	}
	return nil
}

// FindAll collects every element under n matching fn, in document order.
func FindAll(n *html.Node, fn func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if IsElement(c) && fn(c) {
			out = append(out, c)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// FindByClass returns the first element under n with class cls.
func FindByClass(n *html.Node, cls string) *html.Node {
	return Find(n, func(c *html.Node) bool { return HasClass(c, cls) })
}

// Contains reports whether child is n or one of its descendants.
func Contains(n, child *html.Node) bool {
	for c := child; c != nil; c = c.Parent {
		if c == n {
			return true
		}
	}
	return false
}

// IsChrome reports whether n or one of its ancestors is editor chrome.
func IsChrome(n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if _, ok := Attr(c, ChromeAttr); ok {
			return true
		}
	}
	return false
}

// LastElementChild returns the last element child of n, or nil.
func LastElementChild(n *html.Node) *html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if IsElement(c) {
			return c
		}
	}
	return nil
}

// Remove detaches n from its parent. Detached nodes are ignored.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAfter places n right after ref in ref's parent.
func InsertAfter(ref, n *html.Node) {
	if ref.Parent == nil {
		return
	}
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// TextContent concatenates the text under n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return b.String()
}

// SetTextContent replaces the children of n with a single text node.
func SetTextContent(n *html.Node, text string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node, clean bool) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := renderNode(&buf, c, clean); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// OuterHTML renders n itself.
func OuterHTML(n *html.Node, clean bool) (string, error) {
	var buf bytes.Buffer
	if err := renderNode(&buf, n, clean); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SetInnerHTML parses markup in the context of n and replaces its children.
func SetInnerHTML(n *html.Node, markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	removeChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// Clone deep-copies n. With clean set, chrome elements and chrome
// attributes are left out of the copy.
func Clone(n *html.Node, clean bool) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	for _, a := range n.Attr {
		if clean && strings.HasPrefix(a.Key, ChromePrefix) {
			continue
		}
		c.Attr = append(c.Attr, a)
	}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		if clean && isChromeElement(k) {
			continue
		}
		c.AppendChild(Clone(k, clean))
	}
	return c
}

func isChromeElement(n *html.Node) bool {
	_, ok := Attr(n, ChromeAttr)
	return IsElement(n) && ok
}

func renderNode(w io.Writer, n *html.Node, clean bool) error {
	if clean {
		if isChromeElement(n) {
			return nil
		}
		n = Clone(n, true)
	}
	return html.Render(w, n)
}
