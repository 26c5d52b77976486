package main

import (
	"github.com/spf13/cobra"

	"github.com/kobzarvs/pagedit/internal/app"
)

var (
	cfgFile string
	debug   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pagedit",
	Short: "Browser-based WYSIWYG editor for template pages",
	Long: `pagedit serves template pages to a browser editing surface. Text,
images, colors, button styles and repeated blocks are edited in place,
with undo/redo and per-page drafts, and the result can be published to a
remote endpoint.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: config.toml in the config directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also write log entries to stderr")
}

func openApp() (*app.App, error) {
	return app.New(app.Options{
		ConfigPath: cfgFile,
		Debug:      debug,
		Stderr:     verbose,
	})
}
