package chatgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:   srv.URL,
		Token:     "gateway-token",
		BotUserID: "bot-42",
	})
}

func TestSendMessage(t *testing.T) {
	var got sendMessageRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/channels/ch-1/messages", r.URL.Path)
		assert.Equal(t, "Bearer gateway-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.SendMessage(context.Background(), "ch-1", "Got you fam! 🔥")
	require.NoError(t, err)

	assert.Equal(t, "bot-42", got.SenderID)
	assert.Equal(t, "Got you fam! 🔥", got.Text)
}

func TestSendMessageGatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	err := client.SendMessage(context.Background(), "ch-1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSendTyping(t *testing.T) {
	var body map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/channels/ch-9/typing", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.SendTyping(context.Background(), "ch-9"))
	assert.Equal(t, "bot-42", body["sender_id"])
}

func TestDisabledGatewayIsNoop(t *testing.T) {
	client := NewClient(Config{})

	assert.NoError(t, client.SendMessage(context.Background(), "ch-1", "dropped"))
	assert.NoError(t, client.SendTyping(context.Background(), "ch-1"))
}
