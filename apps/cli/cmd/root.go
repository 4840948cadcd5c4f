package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "notrace",
	Short: "Re-edit a sent chat message without the edited mark",
	Long: `notrace rewrites a captured "Copy as fetch" send-message request into
an edit of an existing message: the body's nonce is replaced with the id of
the message to change, so the service edits it in place instead of creating
a new one, and no edited marker is produced.

Only your own messages can be edited this way; the service still enforces
ownership on its side.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}
