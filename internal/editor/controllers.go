package editor

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/net/html"

	"github.com/kobzarvs/pagedit/internal/dom"
)

// Recolor opens the swatch palette, or closes it when it is open.
func (s *Session) Recolor() error {
	s.trace("color")
	if s.selected == nil {
		return s.fail(ErrNoSelection, "Select an element first!")
	}
	if s.colorPanel.IsOpen() {
		s.colorPanel.Close()
		return nil
	}
	p := chromeElement(s.doc, "div", chromeColorPanel)
	dom.SetStyle(p,
		"position", "fixed",
		"top", "20px",
		"left", "20px",
		"background", "#fff",
		"border", "1px solid #ccc",
		"padding", "10px",
		"display", "grid",
		"grid-template-columns", "repeat(8,30px)",
		"grid-gap", "5px",
		"z-index", "9999",
	)
	for _, c := range s.cfg.Palette.Colors {
		sw := s.doc.CreateElement("div")
		dom.SetAttr(sw, attrSwatch, c)
		dom.SetStyle(sw,
			"width", "30px",
			"height", "30px",
			"background", c,
			"cursor", "pointer",
			"border", "1px solid #555",
		)
		p.AppendChild(sw)
	}
	s.colorPanel.Open(s.doc.Body(), p)
	return nil
}

// PickColor applies a swatch: foreground for editable text, background
// for everything else.
func (s *Session) PickColor(color string) {
	if s.selected == nil {
		return
	}
	s.trace("pick_color")
	if isEditable(s.selected) {
		dom.SetStyle(s.selected, "color", color)
	} else {
		dom.SetStyle(s.selected, "background-color", color)
	}
	s.commit("recolor")
}

// SwapImage asks the client for an image file. The swap completes in
// ImageChosen.
func (s *Session) SwapImage() (*FilePicker, error) {
	s.trace("image")
	if s.selected == nil || !s.kind.HasImage() {
		return nil, s.fail(ErrWrongSelection, "Select an image or slideshow first.")
	}
	s.picker = &FilePicker{Accept: "image/*"}
	return s.picker, nil
}

// ImageChosen completes an image swap with the file the user picked. The
// data becomes a data URL on the selected image, or on the first slide of
// the selected slideshow.
func (s *Session) ImageChosen(mimeType string, data []byte) error {
	if s.picker == nil {
		return s.fail(ErrNoPicker, "No image was requested.")
	}
	s.picker = nil
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil || !strings.HasPrefix(mt, "image/") {
		return s.fail(ErrNotImage, "Choose an image file.")
	}
	if s.selected == nil || !s.kind.HasImage() {
		return s.fail(ErrWrongSelection, "Select an image or slideshow first.")
	}
	target := s.selected
	if s.kind == KindSlideshow {
		target = dom.FindByClass(s.selected, s.cfg.Editor.Slide)
	}
	if target == nil {
		return s.fail(ErrNoSlide, "The slideshow has no slides.")
	}
	dom.SetAttr(target, "src", dataURL(mt, data))
	s.trace("image_chosen")
	s.commit("image swap")
	return nil
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ButtonVariants builds the variant panel on first use and toggles its
// visibility afterwards.
func (s *Session) ButtonVariants() error {
	s.trace("buttons")
	if s.selected == nil || s.kind != KindButton {
		return s.fail(ErrWrongSelection, "Select a button first!")
	}
	if s.buttonPanel.IsOpen() {
		s.buttonPanel.ToggleVisible()
		return nil
	}
	p := chromeElement(s.doc, "div", chromeButtonPanel)
	dom.SetAttr(p, "id", "buttonDesignPanel")
	dom.SetStyle(p,
		"position", "fixed",
		"top", "50px",
		"left", "20px",
		"background", "#fff",
		"border", "1px solid #ccc",
		"padding", "10px",
		"z-index", "9999",
	)
	for _, g := range []struct {
		title    string
		variants []string
	}{
		{s.cfg.Buttons.Primary.Title, s.cfg.Buttons.Primary.Variants},
		{s.cfg.Buttons.Secondary.Title, s.cfg.Buttons.Secondary.Variants},
	} {
		h := s.doc.CreateElement("h3")
		dom.SetTextContent(h, g.title)
		p.AppendChild(h)
		row := s.doc.CreateElement("div")
		dom.SetAttr(row, "class", "designs")
		for i, v := range g.variants {
			b := s.doc.CreateElement("button")
			dom.SetAttr(b, "class", v)
			dom.SetAttr(b, attrVariant, v)
			dom.SetTextContent(b, fmt.Sprint(i+1))
			row.AppendChild(b)
		}
		p.AppendChild(row)
	}
	s.buttonPanel.Open(s.doc.Body(), p)
	return nil
}

// PickVariant replaces the selected button's class list with variant.
func (s *Session) PickVariant(variant string) {
	if s.selected == nil || s.kind != KindButton {
		return
	}
	s.trace("pick_variant")
	dom.SetClassName(s.selected, variant)
	s.commit("button variant")
}

// CloneBlock appends a deep copy of the last repeating item to its
// container.
func (s *Session) CloneBlock() error {
	s.trace("clone")
	if s.doc == nil {
		return s.fail(ErrNoDocument, "No page loaded!")
	}
	container := dom.FindByClass(s.doc.Body(), s.cfg.Editor.RepeatContainer)
	if container == nil {
		return s.fail(ErrNoContainer, "No product container found!")
	}
	last := lastItem(container, s.cfg.Editor.RepeatItem)
	if last == nil {
		return s.fail(ErrNoItem, "No product box found!")
	}
	container.AppendChild(dom.Clone(last, true))
	s.commit("clone block")
	return nil
}

// lastItem returns the container's last non-chrome element child when it
// carries the item class.
func lastItem(container *html.Node, class string) *html.Node {
	for c := container.LastChild; c != nil; c = c.PrevSibling {
		if !dom.IsElement(c) || dom.IsChrome(c) {
			continue
		}
		if dom.HasClass(c, class) {
			return c
		}
		return nil
	}
	return nil
}
