package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/capture"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/clipboard"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/output"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/session"
)

var inspectNoColorFlag bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Parse the capture on the clipboard and show what it contains",
	Long: `Parse a "Copy as fetch" capture and print the recognized endpoint,
current message text and current nonce without rewriting anything.

The capture is read from the clipboard, or from stdin when input is piped:

  notrace inspect
  cat snippet.txt | notrace inspect`,
	Args: cobra.NoArgs,
	RunE: inspectCommand,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectNoColorFlag, "no-color", false, "Disable colored output")
}

func inspectCommand(cmd *cobra.Command, args []string) error {
	var raw string
	if session.StdinIsTerminal() {
		text, err := clipboard.System().ReadText()
		if err != nil {
			return fmt.Errorf("failed to read clipboard: %w", err)
		}
		raw = text
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = string(data)
	}

	console := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithNoColor(inspectNoColorFlag),
	)

	captured, err := capture.Extract(raw)
	if err != nil {
		if errors.Is(err, capture.ErrNotCapture) {
			console.Errorf("no fetch snippet for the messages endpoint found")
		} else {
			console.Errorf("%v", err)
		}
		os.Exit(ExitParseError)
	}

	console.CaptureSummary(captured)
	return nil
}
