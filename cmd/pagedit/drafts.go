package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Inspect or clear saved page drafts",
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages with a saved draft",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		pages, err := a.Drafts().Pages()
		if err != nil {
			return err
		}
		if len(pages) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No drafts saved.")
			return nil
		}
		for _, p := range pages {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

var draftsClearCmd = &cobra.Command{
	Use:   "clear <page>...",
	Short: "Delete the saved draft of one or more pages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, p := range args {
			if err := a.Drafts().Delete(p); err != nil {
				return fmt.Errorf("clear %q: %w", p, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared draft for %s\n", p)
		}
		return nil
	},
}

func init() {
	draftsCmd.AddCommand(draftsListCmd, draftsClearCmd)
	rootCmd.AddCommand(draftsCmd)
}
