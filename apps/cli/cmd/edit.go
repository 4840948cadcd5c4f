package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/clipboard"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/core/config"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/dispatch"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/output"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/session"
)

var (
	editConfigFlag   string
	editTimeoutFlag  int
	editAttemptsFlag int
	editNoColorFlag  bool
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Run the interactive edit loop",
	Long: `Run the interactive loop: read a "Copy as fetch" capture from the
clipboard, ask for the new text and the id of the message to replace, put the
rewritten snippet back on the clipboard and optionally dispatch it directly.

Examples:
  notrace edit
  notrace edit --timeout 5000
  notrace edit --config .notrace.config.json`,
	Args: cobra.NoArgs,
	RunE: editCommand,
}

func init() {
	editCmd.Flags().StringVarP(&editConfigFlag, "config", "c", "", "Config file path (default: search working directory)")
	editCmd.Flags().IntVar(&editTimeoutFlag, "timeout", 0, "Dispatch timeout in milliseconds (default: 10000)")
	editCmd.Flags().IntVar(&editAttemptsFlag, "attempts", 0, "Capture attempts per cycle (default: 3)")
	editCmd.Flags().BoolVar(&editNoColorFlag, "no-color", false, "Disable colored output")
}

func editCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(editConfigFlag)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if editTimeoutFlag > 0 {
		cfg.Timeout = editTimeoutFlag
	}
	if editAttemptsFlag > 0 {
		cfg.MaxCaptureAttempts = editAttemptsFlag
	}
	if editNoColorFlag {
		cfg.NoColor = config.BoolPtr(true)
	}

	if !session.StdinIsTerminal() {
		return errors.New("edit needs an interactive terminal (use inspect for piped input)")
	}

	console := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithNoColor(cfg.GetNoColor()),
	)

	clientOpts := []dispatch.ClientOption{
		dispatch.WithTimeout(time.Duration(cfg.Timeout) * time.Millisecond),
	}
	if cfg.UserAgent != "" {
		clientOpts = append(clientOpts, dispatch.WithUserAgent(cfg.UserAgent))
	}

	sess := session.New(
		clipboard.System(),
		session.NewConsolePrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		console,
		dispatch.NewClient(clientOpts...),
		session.WithMaxCaptureAttempts(cfg.MaxCaptureAttempts),
		session.WithVersion(version),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := sess.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			console.Infof("\ninterrupted")
			return nil
		}
		console.Errorf("%v", err)
		os.Exit(ExitIOError)
	}
	return nil
}
