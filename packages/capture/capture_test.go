package capture

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const sendSnippet = `fetch("https://discord.com/api/v9/channels/123456789/messages", {
  "headers": {
    "authorization": "token123",
    "content-type": "application/json"
  },
  "referrer": "https://discord.com/channels/@me",
  "body": "{\"mobile_network_type\":\"unknown\",\"content\":\"hi\",\"nonce\":\"1111\",\"tts\":false,\"flags\":0}",
  "method": "POST",
  "mode": "cors",
  "credentials": "include"
});`

func TestExtract_WellFormedSnippet(t *testing.T) {
	captured, err := Extract(sendSnippet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Endpoint != "https://discord.com/api/v9/channels/123456789/messages" {
		t.Errorf("unexpected endpoint %s", captured.Endpoint)
	}
	if captured.Headers["authorization"] != "token123" {
		t.Errorf("expected authorization token123, got %s", captured.Headers["authorization"])
	}
	if captured.OriginalContent != "hi" {
		t.Errorf("expected original content hi, got %s", captured.OriginalContent)
	}
	if captured.OriginalNonce != "1111" {
		t.Errorf("expected original nonce 1111, got %s", captured.OriginalNonce)
	}
	if captured.Body["tts"] != false {
		t.Errorf("expected tts preserved in body")
	}
}

func TestExtract_MinimalSnippet(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/123/messages", {"headers": {"authorization": "X"}, "body": "{\"content\":\"hi\",\"nonce\":\"111\"}"})`

	captured, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.OriginalContent != "hi" {
		t.Errorf("expected original content hi, got %s", captured.OriginalContent)
	}
	if captured.OriginalNonce != "111" {
		t.Errorf("expected original nonce 111, got %s", captured.OriginalNonce)
	}
}

func TestExtract_SingleQuotedHeaders(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/42/messages", {"headers": {'authorization': 'abc'}, "body": "{\"nonce\":\"1\"}"})`

	captured, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Headers["authorization"] != "abc" {
		t.Errorf("expected authorization abc, got %s", captured.Headers["authorization"])
	}
}

func TestExtract_BracesInsideHeaderValues(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/42/messages", {"headers": {"x-super-properties": "{\"os\":\"Linux\"}", "authorization": "t"}, "body": "{\"nonce\":\"1\"}"})`

	captured, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(captured.Headers["x-super-properties"], "Linux") {
		t.Errorf("header with braces not preserved: %q", captured.Headers["x-super-properties"])
	}
}

func TestExtract_ContentAbsentDefaultsEmpty(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/42/messages", {"headers": {"a": "b"}, "body": "{\"nonce\":\"7\",\"sticker_ids\":[\"9\"]}"})`

	captured, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.OriginalContent != "" {
		t.Errorf("expected empty original content, got %q", captured.OriginalContent)
	}
}

func TestExtract_NumericNonce(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/42/messages", {"headers": {"a": "b"}, "body": "{\"content\":\"x\",\"nonce\":12345}"})`

	captured, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.OriginalNonce != "12345" {
		t.Errorf("expected nonce view 12345, got %s", captured.OriginalNonce)
	}
}

func TestExtract_PreservesLargeIntegerFields(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/42/messages", {"headers": {"a": "b"}, "body": "{\"content\":\"hi\",\"nonce\":\"1\",\"message_reference\":{\"message_id\":1237892471943874561}}"})`

	captured, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ref, ok := captured.Body["message_reference"].(map[string]any)
	if !ok {
		t.Fatalf("expected message_reference object, got %T", captured.Body["message_reference"])
	}
	num, ok := ref["message_id"].(json.Number)
	if !ok {
		t.Fatalf("expected message_id as json.Number, got %T", ref["message_id"])
	}
	if num.String() != "1237892471943874561" {
		t.Errorf("message_id digits not preserved: %s", num.String())
	}
}

func TestExtract_RejectsOtherEndpoints(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not a fetch call", `curl https://discord.com/api/v9/channels/1/messages`},
		{"typing endpoint", `fetch("https://discord.com/api/v9/channels/1/typing", {"headers": {}, "body": "{\"nonce\":\"1\"}"})`},
		{"non-numeric channel", `fetch("https://discord.com/api/v9/channels/abc/messages", {"headers": {}, "body": "{\"nonce\":\"1\"}"})`},
		{"no api version", `fetch("https://discord.com/api/channels/1/messages", {"headers": {}, "body": "{\"nonce\":\"1\"}"})`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured, err := Extract(tt.raw)
			if !errors.Is(err, ErrNotCapture) {
				t.Errorf("expected ErrNotCapture, got %v", err)
			}
			if captured != nil {
				t.Errorf("expected no record, got %+v", captured)
			}
		})
	}
}

func TestExtract_MissingBodySection(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/1/messages", {"headers": {"a": "b"}})`

	captured, err := Extract(raw)
	if captured != nil {
		t.Fatalf("expected no record, got %+v", captured)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(parseErr.Reason, "body") {
		t.Errorf("diagnostic should mention the body: %s", parseErr.Reason)
	}
}

func TestExtract_MissingHeadersSection(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/1/messages", {"body": "{\"nonce\":\"1\"}"})`

	if _, err := Extract(raw); err == nil {
		t.Fatal("expected an error for a capture without headers")
	}
}

func TestExtract_BodyWithoutNonce(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/1/messages", {"headers": {"a": "b"}, "body": "{\"content\":\"hi\"}"})`

	captured, err := Extract(raw)
	if captured != nil {
		t.Fatalf("expected no record, got %+v", captured)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(parseErr.Reason, "nonce") {
		t.Errorf("diagnostic should mention the nonce: %s", parseErr.Reason)
	}
}

func TestExtract_MalformedBodyJSON(t *testing.T) {
	raw := `fetch("https://discord.com/api/v9/channels/1/messages", {"headers": {"a": "b"}, "body": "{\"content\":"})`

	if _, err := Extract(raw); err == nil {
		t.Fatal("expected an error for malformed body JSON")
	}
}
