package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/capture"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/dispatch"
)

const divider = "============================================================"

type ConsoleFormatter struct {
	writer  io.Writer
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// Welcome prints the banner and the capture instructions.
func (f *ConsoleFormatter) Welcome(version string) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "%s\n", bold("NoTraceEdit "+version+" - edit a sent message without the edited mark"))
	fmt.Fprintln(f.writer, divider)
	fmt.Fprintln(f.writer, "1. Open DevTools (ctrl+shift+i) on the chat page")
	fmt.Fprintln(f.writer, "2. Send a message and find the request to /messages in the Network tab")
	fmt.Fprintln(f.writer, "3. Right click it and choose Copy as fetch")
	fmt.Fprintln(f.writer, divider)
}

// CaptureSummary prints what was recognized in the clipboard capture.
func (f *ConsoleFormatter) CaptureSummary(c *capture.CapturedRequest) {
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintf(f.writer, "%s capture recognized\n", green("✓"))
	fmt.Fprintf(f.writer, "  endpoint:     %s\n", c.Endpoint)
	fmt.Fprintf(f.writer, "  current text: %s\n", c.OriginalContent)
	fmt.Fprintf(f.writer, "  current id:   %s\n", c.OriginalNonce)
	fmt.Fprintln(f.writer, divider)
}

// SnippetCopied tells the user the rewritten snippet is on the clipboard.
func (f *ConsoleFormatter) SnippetCopied() {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(f.writer, "%s rewritten fetch snippet copied to the clipboard\n", green("✓"))
	fmt.Fprintln(f.writer, "  paste it into the DevTools console on the chat page to replay it")
}

// DispatchOutcome prints the result of a direct send.
func (f *ConsoleFormatter) DispatchOutcome(r *dispatch.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if r.OK {
		fmt.Fprintf(f.writer, "%s message edited\n", green("✓"))
		if id := r.MessageID(); id != "" {
			fmt.Fprintf(f.writer, "  message id: %s\n", id)
		}
		if link := r.MessageLink(); link != "" {
			fmt.Fprintf(f.writer, "  link:       %s\n", cyan(link))
		}
		return
	}

	fmt.Fprintf(f.writer, "%s dispatch failed (attempt %s): %s\n", red("✗"), r.AttemptID, r.Diagnostic)
	fmt.Fprintln(f.writer, "  the fetch snippet is still on the clipboard for manual replay")
}

// Errorf prints a recoverable error line.
func (f *ConsoleFormatter) Errorf(format string, args ...any) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", red("✗"), fmt.Sprintf(format, args...))
}

// Infof prints a plain informational line.
func (f *ConsoleFormatter) Infof(format string, args ...any) {
	fmt.Fprintf(f.writer, format+"\n", args...)
}
