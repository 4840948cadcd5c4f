package rewrite

import (
	"encoding/json"
	neturl "net/url"
	"sort"
	"strings"

	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/capture"
)

// DefaultReferrerPath is appended to the endpoint origin when the capture
// carries no referer header of its own.
const DefaultReferrerPath = "/channels/@me"

// Payload is the rewritten request in a form an HTTP client can dispatch
// directly, with no re-escaping.
type Payload struct {
	Endpoint string
	Headers  map[string]string
	Body     map[string]any
}

// Rewrite produces the edit request from a captured send request. It returns
// a fetch snippet for manual replay in a browser console and the equivalent
// Payload for direct dispatch.
//
// newID must be non-empty; the interactive flow rejects empty ids before
// calling Rewrite. The captured record is never mutated: the payload body is
// a deep copy.
func Rewrite(captured *capture.CapturedRequest, newContent, newID string) (string, *Payload) {
	body := deepCopyMap(captured.Body)
	body["content"] = newContent
	body["nonce"] = newID

	headers := make(map[string]string, len(captured.Headers))
	for k, v := range captured.Headers {
		headers[k] = v
	}

	payload := &Payload{
		Endpoint: captured.Endpoint,
		Headers:  headers,
		Body:     body,
	}

	return buildSnippet(captured, body), payload
}

// buildSnippet renders the fetch text a browser console replays verbatim.
// Map keys are serialized in sorted order, so identical inputs yield
// byte-identical snippets.
func buildSnippet(captured *capture.CapturedRequest, body map[string]any) string {
	headersJSON, _ := json.MarshalIndent(captured.Headers, "  ", "  ")
	bodyJSON, _ := json.Marshal(body)

	var sb strings.Builder
	sb.WriteString(`fetch("`)
	sb.WriteString(captured.Endpoint)
	sb.WriteString("\", {\n")
	sb.WriteString(`  "headers": `)
	sb.Write(headersJSON)
	sb.WriteString(",\n")
	sb.WriteString(`  "referrer": "`)
	sb.WriteString(referrerFor(captured))
	sb.WriteString("\",\n")
	sb.WriteString("  \"referrerPolicy\": \"strict-origin-when-cross-origin\",\n")
	sb.WriteString(`  "body": `)
	sb.Write(escapeBody(bodyJSON))
	sb.WriteString(",\n")
	sb.WriteString("  \"method\": \"POST\",\n")
	sb.WriteString("  \"mode\": \"cors\",\n")
	sb.WriteString("  \"credentials\": \"include\"\n")
	sb.WriteString("});")
	return sb.String()
}

// escapeBody wraps marshaled body JSON in a JSON string literal, quotes
// included. Encoding the text as a string handles quotes, backslashes and
// newlines in message content, and is exactly undone by the extractor's
// string decoding.
func escapeBody(bodyJSON []byte) []byte {
	literal, _ := json.Marshal(string(bodyJSON))
	return literal
}

// referrerFor reuses the captured referer when present, in either spelling,
// falling back to the endpoint origin plus DefaultReferrerPath. Keys are
// scanned in sorted order so the snippet stays deterministic.
func referrerFor(captured *capture.CapturedRequest) string {
	keys := make([]string, 0, len(captured.Headers))
	for k := range captured.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, "referer") || strings.EqualFold(k, "referrer") {
			return captured.Headers[k]
		}
	}

	u, err := neturl.Parse(captured.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return DefaultReferrerPath
	}
	return u.Scheme + "://" + u.Host + DefaultReferrerPath
}

func deepCopyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		// Scalars, including json.Number, are immutable and shared as-is.
		return val
	}
}
