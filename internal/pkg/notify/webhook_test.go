package notify

import (
	"Bandwall/internal/api/config"
	"Bandwall/internal/model"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier(t *testing.T) {
	var got model.CommentAddedEvent
	var eventType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventType = r.Header.Get(headerEventType)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(config.NotifyConfig{WebhookURL: srv.URL, Timeout: time.Second})
	evt := &model.CommentAddedEvent{PostID: "p1", CommentID: "c1", Content: "Nice!"}
	require.NoError(t, n.HandleCommentAdded(context.Background(), evt))
	assert.Equal(t, "c1", got.CommentID)
	assert.Equal(t, model.EventCommentAdded, eventType)
}

func TestWebhookNotifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(config.NotifyConfig{WebhookURL: srv.URL})
	err := n.HandleCommentAdded(context.Background(), &model.CommentAddedEvent{CommentID: "c1"})
	assert.ErrorContains(t, err, "502")
}

func TestWebhookNotifierWithoutURL(t *testing.T) {
	n := NewWebhookNotifier(config.NotifyConfig{})
	assert.NoError(t, n.HandleCommentAdded(context.Background(), &model.CommentAddedEvent{CommentID: "c1"}))
}
