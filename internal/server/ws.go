package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/net/html"

	"github.com/kobzarvs/pagedit/internal/dom"
	"github.com/kobzarvs/pagedit/internal/editor"
	"github.com/kobzarvs/pagedit/internal/logger"
	"github.com/kobzarvs/pagedit/internal/publish"
	"github.com/kobzarvs/pagedit/internal/templates"
)

const (
	maxMessageSize = 32 << 20 // image picks arrive inline
	writeWait      = 10 * time.Second
)

func (s *Server) upgrader() *websocket.Upgrader {
	u := &websocket.Upgrader{}
	if s.cfg.Server.AllowAllOrigin {
		u.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return u
}

// conn is one browser tab. Its read loop is the only goroutine touching
// the session.
type conn struct {
	id     string
	srv    *Server
	ws     *websocket.Conn
	sess   *editor.Session
	writes sync.Mutex
	wg     sync.WaitGroup
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.track() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.sessions.Done()

	ws, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	c := &conn{
		id:  uuid.NewString(),
		srv: s,
		ws:  ws,
	}
	var loader templates.Loader
	if s.templates != nil {
		loader = s.templates
	}
	c.sess = editor.New(s.cfg, s.drafts, loader)
	go c.closeOnShutdown(ctx)
	defer func() {
		cancel()
		c.wg.Wait()
		_ = ws.Close()
		logger.Info("session closed", "session", c.id)
	}()
	ws.SetReadLimit(maxMessageSize)
	logger.Info("session opened", "session", c.id, "remote", r.RemoteAddr)

	page := r.URL.Query().Get("page")
	if page == "" {
		page = s.cfg.Editor.DefaultPage
	}
	if err := c.sess.LoadPage(ctx, page); err != nil {
		logger.Warn("initial page load failed", "session", c.id, "page", page, "error", err)
	}
	c.sendState(false)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if s.ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "session", c.id, "error", err)
			}
			return
		}
		var req request
		if err := json.Unmarshal(msg, &req); err != nil {
			c.sendNotice(outError, "invalid message format")
			continue
		}
		consumed, ok := c.dispatch(ctx, req)
		if !ok {
			c.sendNotice(outError, "unknown message type: "+req.Type)
			continue
		}
		c.sendState(consumed)
	}
}

// closeOnShutdown unblocks the read loop when the server stops. It exits
// with the session otherwise.
func (c *conn) closeOnShutdown(ctx context.Context) {
	<-ctx.Done()
	if c.srv.ctx.Err() == nil {
		return
	}
	c.writes.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(writeWait))
	c.writes.Unlock()
	_ = c.ws.Close()
}

// node resolves a client path against the current document. A stale path
// yields nil, which every session handler treats as a no-op.
func (c *conn) node(p dom.Path) *html.Node {
	doc := c.sess.Document()
	if doc == nil {
		return nil
	}
	return doc.NodeAt(p)
}

// dispatch applies one event to the session. It reports whether the event
// was consumed and whether its type is known.
func (c *conn) dispatch(ctx context.Context, req request) (consumed, ok bool) {
	s := c.sess
	switch req.Type {
	case msgTool:
		t, known := editor.ParseTool(req.Tool)
		if !known {
			c.sendNotice(outError, "unknown tool: "+req.Tool)
			return false, true
		}
		s.Activate(t)
	case msgClick:
		consumed = s.Click(c.node(req.Path), req.X, req.Y)
	case msgBlur:
		s.Blur(c.node(req.Path), req.HTML)
	case msgResizeStart:
		consumed = s.BeginResize(req.X, req.Y, req.Width, req.Height)
	case msgResizeMove:
		s.PointerMove(req.X, req.Y)
	case msgResizeEnd:
		s.PointerUp()
	case msgColor:
		_ = s.Recolor()
	case msgImage:
		_, _ = s.SwapImage()
	case msgImageFile:
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			c.sendNotice(outError, "invalid image data")
			return false, true
		}
		_ = s.ImageChosen(req.Mime, data)
	case msgButtons:
		_ = s.ButtonVariants()
	case msgClone:
		_ = s.CloneBlock()
	case msgUndo:
		s.Undo()
	case msgRedo:
		s.Redo()
	case msgKey:
		consumed = s.HandleKey(req.Combo)
	case msgSave:
		_ = s.SaveDraft()
	case msgPage:
		_ = s.LoadPage(ctx, req.Page)
	case msgPublish:
		c.publish(ctx)
	default:
		return false, false
	}
	return consumed, true
}

// publish renders the payload on the loop and sends it from its own
// goroutine. The result arrives later as a notice.
func (c *conn) publish(ctx context.Context) {
	doc := c.sess.Document()
	if doc == nil {
		c.sendNotice(outNotice, "No page loaded!")
		return
	}
	if c.srv.publisher == nil {
		c.sendNotice(outNotice, "Publishing is not configured.")
		return
	}
	payload, err := publish.Build(c.srv.cfg.Publish.ProjectName, doc, c.srv.assets())
	if err != nil {
		logger.Error("publish build failed", "session", c.id, "error", err)
		c.sendNotice(outNotice, "Error sending files: "+err.Error())
		return
	}
	page := c.sess.Page()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		msg, err := c.srv.publisher.Publish(ctx, payload)
		if err != nil {
			logger.Error("publish failed", "session", c.id, "error", err)
			c.sendNotice(outNotice, "Error sending files: "+err.Error())
			return
		}
		logger.Info("page published", "session", c.id, "page", page, "images", len(payload.Images))
		c.sendNotice(outNotice, msg)
	}()
}

func (s *Server) assets() fs.FS {
	if s.templates == nil {
		return nil
	}
	return s.templates.FS()
}

func (c *conn) sendState(consumed bool) {
	s := c.sess
	st := state{
		Type:         outState,
		Session:      c.id,
		Page:         s.Page(),
		Tool:         s.Tool().String(),
		HistoryIndex: s.History().Index(),
		HistoryLen:   s.History().Len(),
		CanUndo:      s.History().CanUndo(),
		CanRedo:      s.History().CanRedo(),
		Resizing:     s.Resizing(),
		Keys:         s.BoundKeys(),
		Consumed:     consumed,
		Notices:      s.TakeNotices(),
	}
	if doc := s.Document(); doc != nil {
		var err error
		if st.Head, err = dom.InnerHTML(doc.Head(), false); err != nil {
			logger.Warn("render head failed", "session", c.id, "error", err)
		}
		if st.Body, err = dom.InnerHTML(doc.Body(), false); err != nil {
			logger.Warn("render body failed", "session", c.id, "error", err)
		}
		if n := s.Selected(); n != nil {
			st.Selected, _ = doc.PathOf(n)
		}
		if n := s.Focused(); n != nil {
			st.Focus, _ = doc.PathOf(n)
		}
	}
	if p := s.Picker(); p != nil {
		st.Picker = &picker{Accept: p.Accept}
	}
	c.write(st)
}

func (c *conn) sendNotice(kind, msg string) {
	c.write(notice{Type: kind, Session: c.id, Message: msg})
}

func (c *conn) write(v any) {
	c.writes.Lock()
	defer c.writes.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(v); err != nil {
		logger.Warn("websocket write failed", "session", c.id, "error", err)
	}
}
