package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kobzarvs/pagedit/internal/config"
	"github.com/kobzarvs/pagedit/internal/drafts"
	"github.com/kobzarvs/pagedit/internal/editor"
	"github.com/kobzarvs/pagedit/internal/logger"
	"github.com/kobzarvs/pagedit/internal/publish"
	"github.com/kobzarvs/pagedit/internal/server"
	"github.com/kobzarvs/pagedit/internal/templates"
)

const shutdownTimeout = 5 * time.Second

// Options select the config file and log verbosity.
type Options struct {
	ConfigPath string // empty: config.toml in the config directory
	Debug      bool
	Stderr     bool // mirror log entries to the terminal
}

// App is the top-level runtime for pagedit.
type App struct {
	cfg       config.Config
	drafts    drafts.Store
	templates *templates.FSLoader
	publisher *publish.Client
}

func New(opts Options) (*App, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Debug {
		cfg.Log.Debug = true
	}
	if err := logger.Init(cfg.Log.File, cfg.Log.Debug, opts.Stderr); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := drafts.Open(cfg.Drafts.Backend, cfg.Drafts.Path)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("open drafts: %w", err)
	}
	logger.Info("drafts opened", "backend", cfg.Drafts.Backend)

	return &App{
		cfg:       cfg,
		drafts:    store,
		templates: templates.NewFSLoader(os.DirFS(cfg.Templates.Dir), cfg.Templates.BaseHref, cfg.Templates.DefaultStylesheet),
		publisher: publish.NewClient(cfg.Publish.Endpoint, cfg.PublishTimeout()),
	}, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

func (a *App) Config() config.Config { return a.cfg }
func (a *App) Drafts() drafts.Store  { return a.drafts }

// SetAddr overrides the configured listen address.
func (a *App) SetAddr(addr string) { a.cfg.Server.Addr = addr }

// Close releases the draft store and flushes the log.
func (a *App) Close() error {
	err := a.drafts.Close()
	logger.Close()
	return err
}

// Serve runs the editor server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	srv := server.New(server.Options{
		Config:    a.cfg,
		Drafts:    a.drafts,
		Templates: a.templates,
		Publisher: a.publisher,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}

// Publish loads page with its stored draft and sends it to the publishing
// endpoint without a browser. It returns the endpoint's message.
func (a *App) Publish(ctx context.Context, page string) (string, error) {
	sess := editor.New(a.cfg, a.drafts, a.templates)
	if err := sess.LoadPage(ctx, page); err != nil {
		return "", err
	}
	payload, err := publish.Build(a.cfg.Publish.ProjectName, sess.Document(), a.templates.FS())
	if err != nil {
		return "", fmt.Errorf("build %q: %w", page, err)
	}
	msg, err := a.publisher.Publish(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("publish %q: %w", page, err)
	}
	logger.Info("page published", "page", page, "images", len(payload.Images))
	return msg, nil
}
