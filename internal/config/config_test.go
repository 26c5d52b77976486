package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("PAGEDIT_CONFIG_HOME", "/tmp/pagedit-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/pagedit-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/pagedit-config")
	}

	t.Setenv("PAGEDIT_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/pagedit" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/pagedit")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PAGEDIT_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.EditableRoot != "index" {
		t.Fatalf("EditableRoot = %q, want %q", cfg.Editor.EditableRoot, "index")
	}
	if len(cfg.Palette.Colors) != 16 {
		t.Fatalf("palette size = %d, want 16", len(cfg.Palette.Colors))
	}
	if len(cfg.Buttons.Primary.Variants) != 5 || len(cfg.Buttons.Secondary.Variants) != 5 {
		t.Fatalf("variants = %d/%d, want 5/5", len(cfg.Buttons.Primary.Variants), len(cfg.Buttons.Secondary.Variants))
	}
	if cfg.Keymap["ctrl+z"] != "undo" || cfg.Keymap["ctrl+y"] != "redo" {
		t.Fatalf("keymap = %v", cfg.Keymap)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAGEDIT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
editable-root = "main"
pages = ["home", "shop", "about"]
min-size = 8

[palette]
colors = ["#123456", "#abcdef"]

[buttons.primary]
title = "Primary"

[drafts]
backend = "sqlite"

[publish]
timeout = "5s"

[keymap]
"ctrl+shift+z" = "redo"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.EditableRoot != "main" {
		t.Fatalf("EditableRoot = %q, want %q", cfg.Editor.EditableRoot, "main")
	}
	if cfg.Editor.RepeatContainer != "product-container" {
		t.Fatalf("RepeatContainer = %q, want default", cfg.Editor.RepeatContainer)
	}
	if len(cfg.Editor.Pages) != 3 || cfg.Editor.Pages[1] != "shop" {
		t.Fatalf("Pages = %v", cfg.Editor.Pages)
	}
	if cfg.Editor.MinSize != 8 {
		t.Fatalf("MinSize = %d, want 8", cfg.Editor.MinSize)
	}
	if len(cfg.Palette.Colors) != 2 {
		t.Fatalf("palette size = %d, want 2", len(cfg.Palette.Colors))
	}
	if cfg.Buttons.Primary.Title != "Primary" {
		t.Fatalf("primary title = %q", cfg.Buttons.Primary.Title)
	}
	if len(cfg.Buttons.Primary.Variants) != 5 {
		t.Fatalf("primary variants dropped: %v", cfg.Buttons.Primary.Variants)
	}
	if cfg.Drafts.Backend != "sqlite" {
		t.Fatalf("Drafts.Backend = %q", cfg.Drafts.Backend)
	}
	if cfg.PublishTimeout() != 5*time.Second {
		t.Fatalf("PublishTimeout = %v", cfg.PublishTimeout())
	}
	if cfg.Keymap["ctrl+shift+z"] != "redo" {
		t.Fatalf("keymap ctrl+shift+z = %q", cfg.Keymap["ctrl+shift+z"])
	}
	if cfg.Keymap["ctrl+z"] != "undo" {
		t.Fatalf("keymap ctrl+z = %q, want default kept", cfg.Keymap["ctrl+z"])
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "[editor\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("LoadFile accepted invalid toml")
	}
}

func TestPublishTimeoutFallback(t *testing.T) {
	cfg := Default()
	cfg.Publish.Timeout = "soon"
	if cfg.PublishTimeout() != 30*time.Second {
		t.Fatalf("PublishTimeout = %v, want 30s", cfg.PublishTimeout())
	}
}
