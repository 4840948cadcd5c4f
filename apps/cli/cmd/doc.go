// Package cmd implements the notrace CLI commands using Cobra.
//
// Available commands:
//   - edit: Run the interactive capture/rewrite/dispatch loop
//   - inspect: Parse the capture on the clipboard and show what it contains
//   - version: Show notrace version information
//
// The parse/rewrite/dispatch logic lives in the packages/ tree; the commands
// here only wire configuration, the clipboard and the console together.
package cmd
