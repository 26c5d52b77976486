// Package publish serializes an edited page and sends it to the publish
// endpoint.
package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kobzarvs/pagedit/internal/dom"
	"github.com/kobzarvs/pagedit/internal/logger"
)

var ErrEndpoint = errors.New("publish endpoint error")

// Image is one embedded image, base64 encoded.
type Image struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Payload is the request body sent to the endpoint.
type Payload struct {
	ProjectName string  `json:"projectName"`
	HTML        string  `json:"html"`
	CSS         string  `json:"css"`
	JS          string  `json:"js"`
	Images      []Image `json:"images"`
}

// Build serializes doc without editor chrome. Image sources that are data
// URLs are decoded in place; relative sources are read from assets.
// Images that cannot be resolved are skipped.
func Build(project string, doc *dom.Document, assets fs.FS) (Payload, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	if err := renderClean(&buf, doc.DocumentElement()); err != nil {
		return Payload{}, fmt.Errorf("render document: %w", err)
	}

	p := Payload{ProjectName: project, HTML: buf.String(), Images: []Image{}}

	var css, js strings.Builder
	for _, n := range dom.FindAll(doc.Root(), isTag(atom.Style)) {
		css.WriteString(dom.TextContent(n) + "\n")
	}
	for _, n := range dom.FindAll(doc.Root(), isTag(atom.Script)) {
		js.WriteString(dom.TextContent(n) + "\n")
	}
	p.CSS, p.JS = css.String(), js.String()

	for i, img := range dom.FindAll(doc.Body(), isTag(atom.Img)) {
		src, _ := dom.Attr(img, "src")
		data, ext, err := imageBytes(src, assets)
		if err != nil {
			logger.Warn("skipping image", "src", truncate(src, 64), "error", err)
			continue
		}
		p.Images = append(p.Images, Image{
			Name: fmt.Sprintf("image%d%s", i+1, ext),
			Data: base64.StdEncoding.EncodeToString(data),
		})
	}
	return p, nil
}

func renderClean(w io.Writer, n *html.Node) error {
	if n == nil {
		return errors.New("document has no root element")
	}
	return html.Render(w, dom.Clone(n, true))
}

// isTag matches document elements of type a. Editor chrome never matches.
func isTag(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.DataAtom == a && !dom.IsChrome(n) }
}

func imageBytes(src string, assets fs.FS) ([]byte, string, error) {
	if rest, ok := strings.CutPrefix(src, "data:"); ok {
		meta, payload, ok := strings.Cut(rest, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("unsupported data URL")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", err
		}
		return data, extFor(strings.TrimSuffix(meta, ";base64")), nil
	}
	if src == "" || strings.Contains(src, "://") || strings.HasPrefix(src, "//") || assets == nil {
		return nil, "", errors.New("image not reachable")
	}
	name := path.Clean(strings.TrimPrefix(src, "/"))
	data, err := fs.ReadFile(assets, name)
	if err != nil {
		return nil, "", err
	}
	ext := path.Ext(name)
	if ext == "" {
		ext = ".png"
	}
	return data, ext, nil
}

func extFor(mimeType string) string {
	switch mimeType {
	case "image/png", "":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
		return exts[0]
	}
	return ".png"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Client posts payloads to the publish endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{endpoint: endpoint, http: &http.Client{Timeout: timeout}}
}

type response struct {
	Message string `json:"message"`
}

// Publish sends p and returns the endpoint's message. There is no retry.
func (c *Client) Publish(ctx context.Context, p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending files: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		if resp.StatusCode >= 300 {
			return "", fmt.Errorf("%w: status %d", ErrEndpoint, resp.StatusCode)
		}
		// Plain text replies are passed through as the message.
		return strings.TrimSpace(string(raw)), nil
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrEndpoint, resp.StatusCode, r.Message)
	}
	return r.Message, nil
}
