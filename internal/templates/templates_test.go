package templates

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":   {Data: []byte(`<link rel="stylesheet" href="main.css"><div id="index"><p>hi</p></div>`)},
		"product.html": {Data: []byte(`<div id="index"><button>Buy</button></div>`)},
		"bare.html":    {Data: []byte(`<link rel="stylesheet" href="missing.css"><p>x</p>`)},
		"main.css":     {Data: []byte(`p { color: red; }`)},
		"style.css":    {Data: []byte(`body { margin: 0; }`)},
	}
}

func TestLoadInlinesLinkedStylesheet(t *testing.T) {
	l := NewFSLoader(testFS(), "/templates/", "")
	p, err := l.Load(context.Background(), "index")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Stylesheet != "main.css" {
		t.Fatalf("Stylesheet = %q, want main.css", p.Stylesheet)
	}
	for _, want := range []string{
		`<base href="/templates/">`,
		`<style>p { color: red; }</style>`,
		`<body><link rel="stylesheet" href="main.css"><div id="index">`,
	} {
		if !strings.Contains(p.Markup, want) {
			t.Fatalf("markup missing %q:\n%s", want, p.Markup)
		}
	}
}

func TestLoadFallsBackToDefaultStylesheet(t *testing.T) {
	l := NewFSLoader(testFS(), "", "style.css")
	p, err := l.Load(context.Background(), "product")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Stylesheet != "style.css" || !strings.Contains(p.Markup, "body { margin: 0; }") {
		t.Fatalf("default stylesheet not inlined: %+v", p)
	}
	if strings.Contains(p.Markup, "<base") {
		t.Fatalf("base written with empty href")
	}
}

func TestLoadMissingStylesheetKeepsPage(t *testing.T) {
	l := NewFSLoader(testFS(), "/templates/", "")
	p, err := l.Load(context.Background(), "bare")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Contains(p.Markup, "<style>") {
		t.Fatalf("unexpected style block: %s", p.Markup)
	}
}

func TestLoadUnknownPage(t *testing.T) {
	l := NewFSLoader(testFS(), "", "")
	for _, page := range []string{"nope", "../etc/passwd", ""} {
		if _, err := l.Load(context.Background(), page); !errors.Is(err, ErrUnknownPage) {
			t.Fatalf("Load(%q) err = %v, want ErrUnknownPage", page, err)
		}
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewFSLoader(testFS(), "", "")
	if _, err := l.Load(ctx, "index"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
