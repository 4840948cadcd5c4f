package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/rewrite"
)

func payloadFor(endpoint string) *rewrite.Payload {
	return &rewrite.Payload{
		Endpoint: endpoint,
		Headers:  map[string]string{"authorization": "token123"},
		Body:     map[string]any{"content": "bye", "nonce": "999"},
	}
}

func TestSend_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "token123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bye", body["content"])
		assert.Equal(t, "999", body["nonce"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "555", "content": "bye"}`))
	}))
	defer server.Close()

	client := NewClient()
	result := client.Send(context.Background(), payloadFor(server.URL+"/api/v9/channels/777/messages"))

	require.True(t, result.OK, "diagnostic: %s", result.Diagnostic)
	assert.Equal(t, 200, result.Status)
	assert.Equal(t, "555", result.MessageID())
	assert.NotEmpty(t, result.AttemptID)
}

func TestSend_MessageLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "555"}`))
	}))
	defer server.Close()

	client := NewClient()
	result := client.Send(context.Background(), payloadFor(server.URL+"/api/v9/channels/777/messages"))

	require.True(t, result.OK)
	assert.Equal(t, server.URL+"/channels/@me/777/555", result.MessageLink())
}

func TestSend_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Missing Access", "code": 50001}`))
	}))
	defer server.Close()

	client := NewClient()
	result := client.Send(context.Background(), payloadFor(server.URL+"/api/v9/channels/777/messages"))

	assert.False(t, result.OK)
	assert.Equal(t, 403, result.Status)
	assert.Contains(t, result.Diagnostic, "403")
	assert.Contains(t, result.Diagnostic, "Missing Access")
}

func TestSend_NonOKSuccessStatusIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient()
	result := client.Send(context.Background(), payloadFor(server.URL+"/api/v9/channels/777/messages"))

	assert.False(t, result.OK, "only 200 counts as success")
	assert.Equal(t, 204, result.Status)
}

func TestSend_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL + "/api/v9/channels/777/messages"
	server.Close()

	client := NewClient()
	result := client.Send(context.Background(), payloadFor(endpoint))

	assert.False(t, result.OK)
	assert.Contains(t, result.Diagnostic, "network error")
}

func TestSend_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(WithTimeout(50 * time.Millisecond))
	result := client.Send(context.Background(), payloadFor(server.URL+"/api/v9/channels/777/messages"))

	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Diagnostic)
}

func TestSend_RejectsNonHTTPEndpoint(t *testing.T) {
	client := NewClient()
	result := client.Send(context.Background(), payloadFor("ftp://example.com/api/v9/channels/1/messages"))

	assert.False(t, result.OK)
	assert.Contains(t, result.Diagnostic, "scheme")
}
