package transport

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celtia/supportbot/core"
	"github.com/celtia/supportbot/logging"
)

// echoHandler replies to every inbound message through the gateway.
type echoHandler struct {
	gw *Gateway

	mu       sync.Mutex
	received []string
}

func (h *echoHandler) HandleMessage(ctx context.Context, conversationID, text string) {
	h.mu.Lock()
	h.received = append(h.received, text)
	h.mu.Unlock()
	_ = h.gw.SendText(ctx, conversationID, "echo: "+text)
}

func dialConversation(t *testing.T, srv *httptest.Server, conversationID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + conversationID
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestGatewayRoundTrip(t *testing.T) {
	gw := NewGateway(logging.NoOpLogger{})
	h := &echoHandler{gw: gw}
	gw.Bind(h)

	srv := httptest.NewServer(gw.Router())
	defer srv.Close()

	ws := dialConversation(t, srv, "conv-1")

	require.NoError(t, ws.WriteJSON(Envelope{Text: "hola"}))

	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var out Envelope
	require.NoError(t, ws.ReadJSON(&out))

	assert.Equal(t, "text", out.Type)
	assert.Equal(t, "echo: hola", out.Text)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, []string{"hola"}, h.received)
}

func TestGatewaySendMedia(t *testing.T) {
	gw := NewGateway(logging.NoOpLogger{})
	gw.Bind(&echoHandler{gw: gw})

	srv := httptest.NewServer(gw.Router())
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "promo.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50, 0x4e, 0x47}, 0o600))

	ws := dialConversation(t, srv, "conv-2")

	// Give the server time to register the connection.
	require.Eventually(t, func() bool {
		_, err := gw.lookup("conv-2")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	media := core.MediaRef{Path: path, MIMEType: "image/png"}
	require.NoError(t, gw.SendMedia(context.Background(), "conv-2", media, "promos vigentes"))

	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var out Envelope
	require.NoError(t, ws.ReadJSON(&out))

	assert.Equal(t, "media", out.Type)
	assert.Equal(t, "promos vigentes", out.Caption)
	assert.Equal(t, "image/png", out.MIMEType)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, out.Data)
}

func TestGatewaySendTextNotConnected(t *testing.T) {
	gw := NewGateway(logging.NoOpLogger{})

	err := gw.SendText(context.Background(), "ghost", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestGatewayHealthz(t *testing.T) {
	gw := NewGateway(logging.NoOpLogger{})
	srv := httptest.NewServer(gw.Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}
