package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/logger"
)

func TestNewService_ConsoleMode(t *testing.T) {
	svc := NewService("agent@aura.ae", "AURA", "", logger.NewNop())
	assert.False(t, svc.Enabled())

	err := svc.Send(context.Background(), Message{ToEmail: "sarah@example.com", Subject: "Hi"})
	assert.NoError(t, err, "console mode should not error")
}

func TestSend_RequiresRecipient(t *testing.T) {
	svc := NewService("agent@aura.ae", "AURA", "", logger.NewNop())
	assert.Error(t, svc.Send(context.Background(), Message{Subject: "Hi"}))
}

func TestSend_SendGrid(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := NewService("agent@aura.ae", "AURA", "SG.test-key", logger.NewNop()).WithHost(srv.URL)
	require.True(t, svc.Enabled())

	err := svc.Send(context.Background(), Message{
		ToEmail: "sarah@example.com",
		ToName:  "Sarah",
		Subject: "Quick Follow-up",
		Body:    "Hi Sarah,\n\nStill interested in <Marina>?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer SG.test-key", auth)
	assert.Equal(t, "Quick Follow-up", got["subject"])
}

func TestSend_SendGridErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := NewService("agent@aura.ae", "AURA", "SG.bad", logger.NewNop()).WithHost(srv.URL)
	err := svc.Send(context.Background(), Message{ToEmail: "x@example.com", Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestHTMLBody(t *testing.T) {
	assert.Equal(t, "<html><body><p>a<br>b</p><p>&lt;c&gt;</p></body></html>", htmlBody("a\nb\n\n<c>"))
}
