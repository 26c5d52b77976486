package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Keymap map[string]string

type EditorOptions struct {
	EditableRoot    string   `toml:"editable-root"`
	RepeatContainer string   `toml:"repeat-container"`
	RepeatItem      string   `toml:"repeat-item"`
	Slideshow       string   `toml:"slideshow"`
	Slide           string   `toml:"slide"`
	Placeholder     string   `toml:"placeholder"`
	DefaultPage     string   `toml:"default-page"`
	Pages           []string `toml:"pages"`
	HistoryLimit    int      `toml:"history-limit"`
	MinSize         int      `toml:"min-size"`
}

type Palette struct {
	Colors []string `toml:"colors"`
}

type ButtonGroup struct {
	Title    string   `toml:"title"`
	Variants []string `toml:"variants"`
}

type Buttons struct {
	Primary   ButtonGroup `toml:"primary"`
	Secondary ButtonGroup `toml:"secondary"`
}

type Templates struct {
	Dir               string `toml:"dir"`
	BaseHref          string `toml:"base-href"`
	DefaultStylesheet string `toml:"default-stylesheet"`
}

type Drafts struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type Publish struct {
	Endpoint    string `toml:"endpoint"`
	ProjectName string `toml:"project-name"`
	Timeout     string `toml:"timeout"`
}

type Server struct {
	Addr           string `toml:"addr"`
	AllowAllOrigin bool   `toml:"allow-all-origins"`
}

type Log struct {
	Debug bool   `toml:"debug"`
	File  string `toml:"file"`
}

type Config struct {
	Editor    EditorOptions `toml:"editor"`
	Palette   Palette       `toml:"palette"`
	Buttons   Buttons       `toml:"buttons"`
	Templates Templates     `toml:"templates"`
	Drafts    Drafts        `toml:"drafts"`
	Publish   Publish       `toml:"publish"`
	Server    Server        `toml:"server"`
	Keymap    Keymap        `toml:"keymap"`
	Log       Log           `toml:"log"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			EditableRoot:    "index",
			RepeatContainer: "product-container",
			RepeatItem:      "product-box",
			Slideshow:       "slideshow-container",
			Slide:           "slide",
			Placeholder:     "Type here...",
			DefaultPage:     "index",
			Pages:           []string{"index", "product"},
		},
		Palette: Palette{
			Colors: []string{
				"#000000", "#808080", "#C0C0C0", "#FFFFFF",
				"#800000", "#FF0000", "#808000", "#FFFF00",
				"#008000", "#00FF00", "#008080", "#00FFFF",
				"#000080", "#0000FF", "#800080", "#FF00FF",
			},
		},
		Buttons: Buttons{
			Primary: ButtonGroup{
				Title:    "Buy Now Designs",
				Variants: []string{"buyDesign1", "buyDesign2", "buyDesign3", "buyDesign4", "buyDesign5"},
			},
			Secondary: ButtonGroup{
				Title:    "Add to Cart Designs",
				Variants: []string{"addDesign1", "addDesign2", "addDesign3", "addDesign4", "addDesign5"},
			},
		},
		Templates: Templates{
			Dir:               "templates",
			BaseHref:          "/templates/",
			DefaultStylesheet: "style.css",
		},
		Drafts: Drafts{
			Backend: "file",
		},
		Publish: Publish{
			Endpoint:    "http://localhost:3000/publish",
			ProjectName: "MyProject",
			Timeout:     "30s",
		},
		Server: Server{
			Addr: "127.0.0.1:8080",
		},
		Keymap: Keymap{
			"ctrl+z":      "undo",
			"ctrl+y":      "redo",
			"cmd+z":       "undo",
			"cmd+shift+z": "redo",
		},
	}
}

// PublishTimeout parses Publish.Timeout, falling back to 30s.
func (c Config) PublishTimeout() time.Duration {
	d, err := time.ParseDuration(c.Publish.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Load reads config.toml from ConfigDir over the defaults.
// A missing file is not an error.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}
	merge(&cfg, userCfg)
	return cfg, nil
}

func merge(cfg *Config, user Config) {
	setString(&cfg.Editor.EditableRoot, user.Editor.EditableRoot)
	setString(&cfg.Editor.RepeatContainer, user.Editor.RepeatContainer)
	setString(&cfg.Editor.RepeatItem, user.Editor.RepeatItem)
	setString(&cfg.Editor.Slideshow, user.Editor.Slideshow)
	setString(&cfg.Editor.Slide, user.Editor.Slide)
	setString(&cfg.Editor.Placeholder, user.Editor.Placeholder)
	setString(&cfg.Editor.DefaultPage, user.Editor.DefaultPage)
	if len(user.Editor.Pages) > 0 {
		cfg.Editor.Pages = user.Editor.Pages
	}
	if user.Editor.HistoryLimit > 0 {
		cfg.Editor.HistoryLimit = user.Editor.HistoryLimit
	}
	if user.Editor.MinSize > 0 {
		cfg.Editor.MinSize = user.Editor.MinSize
	}

	if len(user.Palette.Colors) > 0 {
		cfg.Palette.Colors = user.Palette.Colors
	}
	mergeButtons(&cfg.Buttons.Primary, user.Buttons.Primary)
	mergeButtons(&cfg.Buttons.Secondary, user.Buttons.Secondary)

	setString(&cfg.Templates.Dir, user.Templates.Dir)
	setString(&cfg.Templates.BaseHref, user.Templates.BaseHref)
	setString(&cfg.Templates.DefaultStylesheet, user.Templates.DefaultStylesheet)

	setString(&cfg.Drafts.Backend, user.Drafts.Backend)
	setString(&cfg.Drafts.Path, user.Drafts.Path)

	setString(&cfg.Publish.Endpoint, user.Publish.Endpoint)
	setString(&cfg.Publish.ProjectName, user.Publish.ProjectName)
	setString(&cfg.Publish.Timeout, user.Publish.Timeout)

	setString(&cfg.Server.Addr, user.Server.Addr)
	if user.Server.AllowAllOrigin {
		cfg.Server.AllowAllOrigin = true
	}

	for k, v := range user.Keymap {
		cfg.Keymap[k] = v
	}

	if user.Log.Debug {
		cfg.Log.Debug = true
	}
	setString(&cfg.Log.File, user.Log.File)
}

func mergeButtons(dst *ButtonGroup, src ButtonGroup) {
	setString(&dst.Title, src.Title)
	if len(src.Variants) > 0 {
		dst.Variants = src.Variants
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func ConfigDir() (string, error) {
	if v := os.Getenv("PAGEDIT_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "pagedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pagedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
