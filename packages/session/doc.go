// Package session drives the interactive edit loop as a bounded state
// machine.
//
// One cycle walks AwaitingCapture -> AwaitingEdit -> AwaitingDispatchChoice
// -> Done: read a capture from the clipboard (with a bounded number of
// attempts), collect the replacement content and message id, rewrite, copy
// the snippet back, then optionally dispatch directly. All prompts go through
// the Prompter interface so tests can script a whole session without a
// console.
package session
