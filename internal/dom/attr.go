package dom

import (
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or adds attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key from n.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// Classes splits the class attribute.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

func HasClass(n *html.Node, cls string) bool {
	for _, c := range Classes(n) {
		if c == cls {
			return true
		}
	}
	return false
}

// SetClassName replaces the whole class list.
func SetClassName(n *html.Node, className string) {
	if className == "" {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", className)
}

// Style returns the inline style declarations in source order. Values may
// hold semicolons inside url() or quoted strings.
func Style(n *html.Node) [][2]string {
	v, _ := Attr(n, "style")
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if !strings.HasSuffix(v, ";") {
		v += ";"
	}
	// A malformed tail is dropped; everything before it is kept.
	parsed, _ := parser.ParseDeclarations(v)
	decls := make([][2]string, 0, len(parsed))
	for _, d := range parsed {
		k := strings.ToLower(strings.TrimSpace(d.Property))
		if k == "" {
			continue
		}
		val := d.Value
		if d.Important {
			val += " !important"
		}
		decls = append(decls, [2]string{k, val})
	}
	return decls
}

// StyleProp returns one inline style property.
func StyleProp(n *html.Node, prop string) string {
	for _, d := range Style(n) {
		if d[0] == prop {
			return d[1]
		}
	}
	return ""
}

// SetStyle sets inline style properties, keeping the order of existing ones.
// An empty value removes the property.
func SetStyle(n *html.Node, props ...string) {
	decls := Style(n)
	for i := 0; i+1 < len(props); i += 2 {
		prop, val := strings.ToLower(props[i]), props[i+1]
		found := false
		for j := range decls {
			if decls[j][0] == prop {
				decls[j][1] = val
				found = true
				break
			}
		}
		if !found {
			decls = append(decls, [2]string{prop, val})
		}
	}
	var b strings.Builder
	for _, d := range decls {
		if d[1] == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(d[0] + ": " + d[1] + ";")
	}
	if b.Len() == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", b.String())
}

// Px formats a pixel length.
func Px(v int) string {
	return strconv.Itoa(v) + "px"
}

// ParsePx reads a "12px" style length. Bare numbers are accepted.
func ParsePx(v string) (int, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
