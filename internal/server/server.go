// Package server exposes editing sessions to the browser client over HTTP
// and websockets.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kobzarvs/pagedit/internal/config"
	"github.com/kobzarvs/pagedit/internal/editor"
	"github.com/kobzarvs/pagedit/internal/logger"
	"github.com/kobzarvs/pagedit/internal/publish"
	"github.com/kobzarvs/pagedit/internal/templates"
)

//go:embed static
var staticFS embed.FS

// Publisher sends a built page to the publishing endpoint.
type Publisher interface {
	Publish(ctx context.Context, p publish.Payload) (string, error)
}

// Options holds the server's collaborators.
type Options struct {
	Config    config.Config
	Drafts    editor.DraftStore
	Templates *templates.FSLoader
	Publisher Publisher
}

// Server hosts the client, the template assets and one editor session per
// websocket connection.
type Server struct {
	cfg        config.Config
	drafts     editor.DraftStore
	templates  *templates.FSLoader
	publisher  Publisher
	router     chi.Router
	httpServer *http.Server

	// ctx is the parent of every session; Shutdown cancels it because
	// http.Server does not track hijacked websocket connections.
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	closing  bool
	sessions sync.WaitGroup
}

func New(opts Options) *Server {
	s := &Server{
		cfg:       opts.Config,
		drafts:    opts.Drafts,
		templates: opts.Templates,
		publisher: opts.Publisher,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.Server.AllowAllOrigin {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// The websocket outlives any request timeout.
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/api/pages", s.handlePages)

		static, _ := fs.Sub(staticFS, "static")
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, static, "index.html")
		})
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

		if s.templates != nil {
			prefix := s.templatePrefix()
			r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServerFS(s.templates.FS())))
		}
	})
	return r
}

func (s *Server) templatePrefix() string {
	p := s.cfg.Templates.BaseHref
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	if p[len(p)-1] != '/' {
		p += "/"
	}
	return p
}

type pagesResponse struct {
	Pages   []string `json:"pages"`
	Default string   `json:"default"`
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pagesResponse{
		Pages:   s.cfg.Editor.Pages,
		Default: s.cfg.Editor.DefaultPage,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("response write failed", "error", err)
	}
}

// requestLogger logs every request through the application logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	logger.Info("pagedit server listening", "addr", s.cfg.Server.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server. Open editor sessions are told to
// go away and are waited for until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	s.cancel()

	err := s.httpServer.Shutdown(ctx)
	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// track registers a new session unless the server is shutting down.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions.Add(1)
	return true
}
