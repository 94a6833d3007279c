package slack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_NilReceiver(t *testing.T) {
	var s *Service

	// Must not panic; bookings proceed without Slack.
	s.NotifyBookingRequested(context.Background(), "Priya", "9876543210", "123456")
}

func TestNewService(t *testing.T) {
	t.Run("returns nil when token empty", func(t *testing.T) {
		svc := NewService(ServiceConfig{Token: "", Channel: "C123"})
		assert.Nil(t, svc)
	})

	t.Run("returns nil when channel empty", func(t *testing.T) {
		svc := NewService(ServiceConfig{Token: "xoxb-test", Channel: ""})
		assert.Nil(t, svc)
	})

	t.Run("returns service when configured", func(t *testing.T) {
		svc := NewService(ServiceConfig{Token: "xoxb-test", Channel: "C123"})
		assert.NotNil(t, svc)
	})
}

func TestNotifyBookingRequested_PostsToChannel(t *testing.T) {
	var gotChannel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotChannel = r.FormValue("channel")
		assert.Contains(t, r.FormValue("blocks"), "123456")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1.2"}`))
	}))
	defer srv.Close()

	svc := NewServiceWithClient(NewClientWithAPIURL("xoxb-test", "C123", srv.URL+"/"))
	svc.NotifyBookingRequested(context.Background(), "Priya", "9876543210", "123456")
	assert.Equal(t, "C123", gotChannel)
}

func TestNotifyBookingRequested_FailOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewServiceWithClient(NewClientWithAPIURL("xoxb-test", "C123", srv.URL+"/"))
	// Must not panic or propagate the failure.
	svc.NotifyBookingRequested(context.Background(), "Priya", "9876543210", "123456")
}

func TestBuildBookingMessage(t *testing.T) {
	blocks := BuildBookingMessage("Priya", "9876543210", "654321")
	require.Len(t, blocks, 3)
}
