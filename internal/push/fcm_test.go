package push

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T, handler http.HandlerFunc) *FCMDispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	d, err := NewFCMDispatcher(context.Background(), FCMConfig{
		ProjectID:   "airwell-test",
		HTTPClient:  srv.Client(),
		FCMEndpoint: srv.URL + "/",
		IIDBaseURL:  srv.URL,
	})
	require.NoError(t, err)
	return d
}

func TestSendToTopic(t *testing.T) {
	var got map[string]interface{}
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/airwell-test/messages:send", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"projects/airwell-test/messages/123"}`))
	})

	id, err := d.SendToTopic(context.Background(), "aqi-istanbul", Message{
		Title: "Air quality alert",
		Body:  "Unhealthy air today",
		Data:  map[string]string{"aqi": "160"},
	})
	require.NoError(t, err)
	assert.Equal(t, "projects/airwell-test/messages/123", id)

	msg := got["message"].(map[string]interface{})
	assert.Equal(t, "aqi-istanbul", msg["topic"])
	assert.Equal(t, "Air quality alert", msg["notification"].(map[string]interface{})["title"])
	assert.Equal(t, "160", msg["data"].(map[string]interface{})["aqi"])
}

func TestSendToTopic_ProviderError(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom"}}`))
	})

	_, err := d.SendToTopic(context.Background(), "news", Message{Title: "x"})
	assert.Error(t, err)
}

func TestSubscribeToTopic(t *testing.T) {
	var req batchRequest
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/iid/v1:batchAdd", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("access_token_auth"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, _ = w.Write([]byte(`{"results":[{},{}]}`))
	})

	err := d.SubscribeToTopic(context.Background(), []string{"tok-1", "tok-2"}, "news")
	require.NoError(t, err)
	assert.Equal(t, "/topics/news", req.To)
	assert.Equal(t, []string{"tok-1", "tok-2"}, req.RegistrationTokens)
}

func TestUnsubscribeFromTopic_PartialFailure(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/iid/v1:batchRemove", r.URL.Path)
		_, _ = w.Write([]byte(`{"results":[{},{"error":"NOT_FOUND"}]}`))
	})

	err := d.UnsubscribeFromTopic(context.Background(), []string{"ok", "stale"}, "news")

	var tokenErr *TokenError
	require.True(t, errors.As(err, &tokenErr))
	assert.Equal(t, map[string]string{"stale": "NOT_FOUND"}, tokenErr.Failed)
}

func TestBatch_NoTokens(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	assert.ErrorIs(t, d.SubscribeToTopic(context.Background(), nil, "news"), ErrNoTokens)
	assert.ErrorIs(t, Noop{}.SubscribeToTopic(context.Background(), nil, "news"), ErrNoTokens)
}
