package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/kanban-board/internal/domain"
)

const feed = `{
	"tickets": [
		{"id": "CAM-1", "title": "Update user profile page UI", "tag": ["Feature request"], "userId": "usr-1", "status": "Todo", "priority": 4},
		{"id": "CAM-2", "title": "Add multi-language support", "tag": ["Feature Request"], "userId": 2, "status": "In progress", "priority": 3}
	],
	"users": [
		{"id": "usr-1", "name": "Anoop sharma", "available": false},
		{"id": 2, "name": "Yogesh", "available": true}
	]
}`

func TestFetchDecodesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	payload, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, payload.Tickets, 2)
	assert.Equal(t, domain.UserRef("2"), payload.Tickets[1].UserID)
	require.Len(t, payload.Users, 2)
	assert.Equal(t, "Yogesh", payload.Users[1].Name)
	assert.True(t, payload.Users[1].Available)
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	assert.ErrorContains(t, err, "503")
}

func TestFetchRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	assert.ErrorContains(t, err, "decode feed")
}

func TestFetchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("http://127.0.0.1:1", time.Second).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEffectiveTimeoutPrefersNearerDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient("http://example.invalid", time.Minute)
	assert.LessOrEqual(t, c.effectiveTimeout(ctx), 50*time.Millisecond)
	assert.Equal(t, time.Minute, c.effectiveTimeout(context.Background()))
	assert.Zero(t, NewClient("", 0).effectiveTimeout(context.Background()))
}
