package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/capture"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/clipboard"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/dispatch"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/output"
	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/rewrite"
)

// ErrEmptyIdentifier means the user declined to supply a message id; the
// cycle is aborted before any rewrite happens.
var ErrEmptyIdentifier = errors.New("message id must not be empty")

// State names one step of the interaction cycle.
type State int

const (
	AwaitingCapture State = iota
	AwaitingEdit
	AwaitingDispatchChoice
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingCapture:
		return "awaiting-capture"
	case AwaitingEdit:
		return "awaiting-edit"
	case AwaitingDispatchChoice:
		return "awaiting-dispatch-choice"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// DefaultMaxCaptureAttempts bounds how often a cycle re-prompts for a
// usable capture before giving up.
const DefaultMaxCaptureAttempts = 3

// cyclePause spaces consecutive cycles apart.
const cyclePause = 1500 * time.Millisecond

// Prompter is the console input capability of the loop.
type Prompter interface {
	ReadLine(prompt string) (string, error)
}

type Session struct {
	buffer             clipboard.Buffer
	prompter           Prompter
	console            *output.ConsoleFormatter
	client             *dispatch.Client
	maxCaptureAttempts int
	limiter            *rate.Limiter
	version            string
}

type Option func(*Session)

func New(buffer clipboard.Buffer, prompter Prompter, console *output.ConsoleFormatter, client *dispatch.Client, opts ...Option) *Session {
	s := &Session{
		buffer:             buffer,
		prompter:           prompter,
		console:            console,
		client:             client,
		maxCaptureAttempts: DefaultMaxCaptureAttempts,
		limiter:            rate.NewLimiter(rate.Every(cyclePause), 1),
		version:            "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithMaxCaptureAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxCaptureAttempts = n
		}
	}
}

func WithVersion(v string) Option {
	return func(s *Session) {
		s.version = v
	}
}

// WithPause overrides the spacing between cycles. Tests set it to zero.
func WithPause(d time.Duration) Option {
	return func(s *Session) {
		if d <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// Run processes edit cycles until the user quits or the context is
// cancelled. Prompter and buffer faults end the run: the loop fails closed
// rather than continuing with partial state.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		s.console.Welcome(s.version)

		again, err := s.RunCycle(ctx)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}

		s.console.Infof("\npreparing for the next message...")
	}
}

// RunCycle walks one capture -> edit -> dispatch-choice cycle. It reports
// whether the user wants another cycle.
func (s *Session) RunCycle(ctx context.Context) (bool, error) {
	var (
		captured *capture.CapturedRequest
		payload  *rewrite.Payload
		content  string
		id       string
	)

	state := AwaitingCapture
	for state != Done {
		switch state {
		case AwaitingCapture:
			c, err := s.awaitCapture()
			if err != nil {
				return false, err
			}
			if c == nil {
				return s.askRetry()
			}
			captured = c
			state = AwaitingEdit

		case AwaitingEdit:
			newContent, newID, err := s.awaitEdit()
			if err != nil {
				return false, err
			}
			if newID == "" {
				s.console.Errorf("%v", ErrEmptyIdentifier)
				s.console.Infof("editing is impossible without the exact message id")
				return s.askRetry()
			}
			content, id = newContent, newID
			state = AwaitingDispatchChoice

		case AwaitingDispatchChoice:
			snippet, p := rewrite.Rewrite(captured, content, id)
			payload = p

			if err := s.buffer.WriteText(snippet); err != nil {
				return false, err
			}
			s.console.SnippetCopied()

			again, err := s.awaitDispatchChoice(ctx, payload)
			if err != nil {
				return false, err
			}
			state = Done
			return again, nil
		}
	}
	return false, nil
}

// awaitCapture reads the clipboard until it yields a parseable capture or
// the attempt budget runs out. A nil record with nil error means the budget
// is exhausted.
func (s *Session) awaitCapture() (*capture.CapturedRequest, error) {
	for attempt := 1; attempt <= s.maxCaptureAttempts; attempt++ {
		if _, err := s.prompter.ReadLine("press Enter when the fetch snippet is on the clipboard... "); err != nil {
			return nil, err
		}

		raw, err := s.buffer.ReadText()
		if err != nil {
			return nil, err
		}

		captured, err := capture.Extract(raw)
		if err == nil {
			s.console.CaptureSummary(captured)
			return captured, nil
		}

		if errors.Is(err, capture.ErrNotCapture) {
			s.console.Errorf("no fetch snippet for the messages endpoint found on the clipboard")
		} else {
			s.console.Errorf("%v", err)
		}
		s.console.Infof("attempt %d/%d: copy the request from DevTools and try again", attempt, s.maxCaptureAttempts)
	}

	s.console.Errorf("no usable capture after %d attempts", s.maxCaptureAttempts)
	return nil, nil
}

// awaitEdit collects the replacement content and the id of the message to
// edit. An empty id is reported by the caller, not here.
func (s *Session) awaitEdit() (string, string, error) {
	content, err := s.prompter.ReadLine("new message text: ")
	if err != nil {
		return "", "", err
	}
	s.console.Infof("preview: %q", content)

	s.console.Infof("\nright click the message to replace and choose Copy ID;")
	s.console.Infof("with a wrong id the service creates a new message instead of editing")
	id, err := s.prompter.ReadLine("message id: ")
	if err != nil {
		return "", "", err
	}

	return content, strings.TrimSpace(id), nil
}

func (s *Session) awaitDispatchChoice(ctx context.Context, payload *rewrite.Payload) (bool, error) {
	s.console.Infof("\nhow should the edit be sent?")
	s.console.Infof("1. dispatch directly from here (recommended)")
	s.console.Infof("2. keep the snippet on the clipboard only")
	s.console.Infof("3. quit without sending")

	choice, err := s.prompter.ReadLine("> ")
	if err != nil {
		return false, err
	}

	switch strings.TrimSpace(choice) {
	case "1":
		result := s.client.Send(ctx, payload)
		s.console.DispatchOutcome(result)
		return s.askContinue()
	case "2":
		return s.askContinue()
	case "3":
		s.console.Infof("quitting without sending")
		return false, nil
	default:
		s.console.Errorf("unrecognized choice %q", strings.TrimSpace(choice))
		return s.askContinue()
	}
}

func (s *Session) askRetry() (bool, error) {
	return s.confirm("\ntry again with another capture? (y/n): ")
}

func (s *Session) askContinue() (bool, error) {
	return s.confirm("\nedit another message? (y/n): ")
}

// confirm treats anything outside the yes set as no, so a single read
// always resolves the prompt.
func (s *Session) confirm(prompt string) (bool, error) {
	answer, err := s.prompter.ReadLine(prompt)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "1":
		return true, nil
	default:
		return false, nil
	}
}
