// Package output renders the tool's console surface.
//
// A single ConsoleFormatter prints the welcome banner, capture summaries,
// dispatch outcomes and recoverable errors with colored status symbols. All
// writes go through an injectable io.Writer so tests can capture them.
package output
