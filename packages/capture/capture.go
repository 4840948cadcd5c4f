package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	neturl "net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// ErrNotCapture means the text does not look like a send-message capture at
// all: no fetch call, or an endpoint other than the messages endpoint. The
// caller should treat it as "not recognized" and ask for a new capture.
var ErrNotCapture = errors.New("text is not a send-message fetch capture")

// ParseError means the snippet was recognized but a substructure was
// malformed or a required field was missing.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid capture: %s: %v", e.Reason, e.Err)
	}
	return "invalid capture: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CapturedRequest is the parsed form of a send-message fetch snippet.
// Treat it as immutable after Extract returns it.
type CapturedRequest struct {
	Endpoint string
	Headers  map[string]string
	Body     map[string]any

	// Views of body.nonce / body.content taken at parse time.
	OriginalNonce   string
	OriginalContent string
}

var (
	fetchURLPattern = regexp.MustCompile(`fetch\(\s*"([^"]+)"`)
	messagesPath    = regexp.MustCompile(`^/api/v\d+/channels/\d+/messages$`)
)

// bodySchema only pins down what the rewrite depends on: the body must be an
// object carrying a nonce. Everything else is preserved verbatim.
var bodySchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["nonce"]
}`)

// Extract parses raw snippet text into a CapturedRequest. It returns
// ErrNotCapture when the text does not target the messages endpoint, and a
// *ParseError when the headers or body sections are malformed or the body
// lacks a nonce. It never returns a partially populated record.
func Extract(raw string) (*CapturedRequest, error) {
	endpoint, ok := matchEndpoint(raw)
	if !ok {
		return nil, ErrNotCapture
	}

	headers, err := extractHeaders(raw)
	if err != nil {
		return nil, err
	}

	bodyText, body, err := extractBody(raw)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(bodySchema, gojsonschema.NewStringLoader(bodyText))
	if err != nil {
		return nil, &ParseError{Reason: "body validation failed", Err: err}
	}
	if !result.Valid() {
		return nil, &ParseError{Reason: "body has no nonce field (copy the request that sends the message, not another one)"}
	}

	return &CapturedRequest{
		Endpoint:        endpoint,
		Headers:         headers,
		Body:            body,
		OriginalNonce:   gjson.Get(bodyText, "nonce").String(),
		OriginalContent: gjson.Get(bodyText, "content").String(),
	}, nil
}

// matchEndpoint pulls the fetch URL out of the snippet and checks it has the
// messages endpoint shape.
func matchEndpoint(raw string) (string, bool) {
	m := fetchURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}

	u, err := neturl.Parse(m[1])
	if err != nil {
		return "", false
	}
	if u.Scheme == "" || u.Host == "" || !messagesPath.MatchString(u.Path) {
		return "", false
	}
	return m[1], true
}

func extractHeaders(raw string) (map[string]string, error) {
	start, err := sectionStart(raw, "headers")
	if err != nil {
		return nil, err
	}

	obj, err := objectAt(raw, start)
	if err != nil {
		return nil, &ParseError{Reason: "headers block is malformed", Err: err}
	}

	headers := make(map[string]string)
	if err := json.Unmarshal([]byte(obj), &headers); err != nil {
		// Capture tools emit either quoting style; retry with single quotes
		// normalized to double.
		normalized := strings.ReplaceAll(obj, "'", `"`)
		if err2 := json.Unmarshal([]byte(normalized), &headers); err2 != nil {
			return nil, &ParseError{Reason: "headers block is not a valid key/value object", Err: err}
		}
	}
	return headers, nil
}

// extractBody returns the unescaped body text alongside its decoded object.
func extractBody(raw string) (string, map[string]any, error) {
	start, err := sectionStart(raw, "body")
	if err != nil {
		return "", nil, err
	}

	literal, err := stringLiteralAt(raw, start)
	if err != nil {
		return "", nil, &ParseError{Reason: "body section is malformed", Err: err}
	}

	// Decoding the literal as a JSON string performs the unescaping.
	var bodyText string
	if err := json.Unmarshal([]byte(literal), &bodyText); err != nil {
		return "", nil, &ParseError{Reason: "body string could not be unescaped", Err: err}
	}

	// UseNumber keeps snowflake-sized integers intact: float64 would round
	// anything above 2^53 and the rewrite must re-emit the original digits.
	dec := json.NewDecoder(strings.NewReader(bodyText))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return "", nil, &ParseError{Reason: "body is not a valid JSON object", Err: err}
	}
	return bodyText, body, nil
}

// sectionStart finds the first `"key":` (or single-quoted) occurrence and
// returns the index of its first value byte.
func sectionStart(raw, key string) (int, error) {
	idx := strings.Index(raw, `"`+key+`"`)
	if idx < 0 {
		idx = strings.Index(raw, `'`+key+`'`)
	}
	if idx < 0 {
		return 0, &ParseError{Reason: "no " + key + " section found"}
	}

	rest := raw[idx+len(key)+2:]
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	if !strings.HasPrefix(trimmed, ":") {
		return 0, &ParseError{Reason: key + " section has no value"}
	}
	trimmed = strings.TrimLeft(trimmed[1:], " \t\r\n")
	return len(raw) - len(trimmed), nil
}

// objectAt reads a balanced {...} block starting at raw[start], tracking
// string literals so braces inside values do not terminate the scan.
func objectAt(raw string, start int) (string, error) {
	if start >= len(raw) || raw[start] != '{' {
		return "", errors.New("expected an object")
	}

	depth := 0
	inString := false
	var quote byte
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				inString = false
			}
			continue
		}

		switch c {
		case '"', '\'':
			inString = true
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}
	return "", errors.New("unterminated object")
}

// stringLiteralAt reads a double-quoted JSON string literal (quotes included)
// starting at raw[start].
func stringLiteralAt(raw string, start int) (string, error) {
	if start >= len(raw) || raw[start] != '"' {
		return "", errors.New("expected a quoted string")
	}

	escaped := false
	for i := start + 1; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			return raw[start : i+1], nil
		}
	}
	return "", errors.New("unterminated string")
}
