package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/kobzarvs/pagedit/internal/dom"
)

const page = `<!DOCTYPE html><html><head><style>p { color: red; }</style>` +
	`<style data-pagedit-chrome="style">[data-pagedit-selected]{outline:2px dashed red}</style></head><body>` +
	`<div id="index" data-pagedit-selected="true"><p>hi</p>` +
	`<img src="data:image/jpeg;base64,` + "AQID" + `">` +
	`<img src="logo.png">` +
	`<img src="https://cdn.example.com/remote.png">` +
	`<div data-pagedit-chrome="handle"></div></div>` +
	`<script>console.log(1)</script>` +
	`</body></html>`

func TestBuild(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	assets := fstest.MapFS{"logo.png": {Data: []byte{9, 9}}}
	p, err := Build("MyProject", doc, assets)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(p.HTML, "<!DOCTYPE html>\n<html>") {
		t.Fatalf("HTML prefix = %q", p.HTML[:30])
	}
	if strings.Contains(p.HTML, "data-pagedit") {
		t.Fatalf("chrome leaked into payload: %s", p.HTML)
	}
	if p.CSS != "p { color: red; }\n" {
		t.Fatalf("CSS = %q", p.CSS)
	}
	if p.JS != "console.log(1)\n" {
		t.Fatalf("JS = %q", p.JS)
	}
	if len(p.Images) != 2 {
		t.Fatalf("images = %+v, want 2", p.Images)
	}
	if p.Images[0].Name != "image1.jpg" || p.Images[0].Data != "AQID" {
		t.Fatalf("image1 = %+v", p.Images[0])
	}
	if p.Images[1].Name != "image2.png" || p.Images[1].Data != base64.StdEncoding.EncodeToString([]byte{9, 9}) {
		t.Fatalf("image2 = %+v", p.Images[1])
	}
}

func TestPublishReturnsMessage(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("method=%s content-type=%s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Published!"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	msg, err := c.Publish(context.Background(), Payload{ProjectName: "P", HTML: "<html></html>"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if msg != "Published!" {
		t.Fatalf("message = %q", msg)
	}
	if got.ProjectName != "P" || got.HTML != "<html></html>" {
		t.Fatalf("server got %+v", got)
	}
}

func TestPublishPlainTextReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Email sent successfully!\n"))
	}))
	defer srv.Close()

	msg, err := NewClient(srv.URL, time.Second).Publish(context.Background(), Payload{})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if msg != "Email sent successfully!" {
		t.Fatalf("message = %q", msg)
	}
}

func TestPublishServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Publish(context.Background(), Payload{})
	if !errors.Is(err, ErrEndpoint) {
		t.Fatalf("err = %v, want ErrEndpoint", err)
	}
}

func TestPublishUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewClient(url, time.Second).Publish(context.Background(), Payload{}); err == nil {
		t.Fatalf("Publish to closed server succeeded")
	}
}
