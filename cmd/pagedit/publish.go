package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <page>",
	Short: "Publish a page with its saved draft",
	Long:  `Loads the page template, restores its saved draft and sends the result to the configured publish endpoint without opening a browser.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		msg, err := a.Publish(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error sending files: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
