// Package templates loads named page templates and prepares them for the
// editing surface.
package templates

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/kobzarvs/pagedit/internal/logger"
)

var ErrUnknownPage = errors.New("unknown page")

var (
	stylesheetLink = regexp.MustCompile(`(?i)<link[^>]+rel=["']stylesheet["'][^>]+href=["']([^"']+)["']`)
	validPage      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Page is a template ready to be parsed as the editable document.
type Page struct {
	ID         string
	Stylesheet string // href of the inlined stylesheet
	Markup     string // full document with the stylesheet inlined
}

// Loader resolves a page identifier to markup.
type Loader interface {
	Load(ctx context.Context, page string) (Page, error)
}

// FSLoader reads <page>.html files from a file system.
type FSLoader struct {
	fsys              fs.FS
	baseHref          string
	defaultStylesheet string
}

func NewFSLoader(fsys fs.FS, baseHref, defaultStylesheet string) *FSLoader {
	if defaultStylesheet == "" {
		defaultStylesheet = "style.css"
	}
	return &FSLoader{fsys: fsys, baseHref: baseHref, defaultStylesheet: defaultStylesheet}
}

// FS returns the template file system, used to resolve relative assets.
func (l *FSLoader) FS() fs.FS { return l.fsys }

// Load reads the page body, inlines its first stylesheet and wraps it in a
// document whose base points at the served template directory. A missing
// stylesheet inlines nothing.
func (l *FSLoader) Load(ctx context.Context, page string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if !validPage.MatchString(page) {
		return Page{}, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	data, err := fs.ReadFile(l.fsys, page+".html")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, fmt.Errorf("%w: %q", ErrUnknownPage, page)
		}
		return Page{}, fmt.Errorf("read template %q: %w", page, err)
	}
	body := string(data)

	href := l.defaultStylesheet
	if m := stylesheetLink.FindStringSubmatch(body); m != nil {
		href = m[1]
	}
	css := l.inlineCSS(href)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	if l.baseHref != "" {
		fmt.Fprintf(&b, "<base href=\"%s\">\n", html.EscapeString(l.baseHref))
	}
	b.WriteString(css)
	b.WriteString("</head>\n<body>")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")

	return Page{ID: page, Stylesheet: href, Markup: b.String()}, nil
}

func (l *FSLoader) inlineCSS(href string) string {
	name := path.Clean(strings.TrimPrefix(href, "./"))
	if strings.Contains(href, "://") || strings.HasPrefix(name, "../") || strings.HasPrefix(name, "/") {
		logger.Warn("stylesheet not inlined", "href", href)
		return ""
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		logger.Warn("failed to fetch stylesheet", "href", href, "error", err)
		return ""
	}
	return "<style>" + string(data) + "</style>\n"
}
