package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/celtia/supportbot/core"
	"github.com/celtia/supportbot/logging"
)

// MessageHandler consumes inbound chat messages. *dialogue.Engine
// satisfies it.
type MessageHandler interface {
	HandleMessage(ctx context.Context, conversationID, text string)
}

// Envelope is the JSON frame exchanged over the websocket. Inbound
// frames carry Text only; outbound frames are either "text" or "media".
type Envelope struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Caption  string `json:"caption,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// Gateway upgrades chat connections and routes frames between the
// websocket and the dialogue engine. One connection per conversation;
// a reconnect replaces the previous socket.
type Gateway struct {
	upgrader websocket.Upgrader
	logger   logging.Logger

	mu      sync.RWMutex
	conns   map[string]*wsConn
	handler MessageHandler
}

// wsConn serializes writes; gorilla permits a single concurrent writer.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// NewGateway creates an unbound gateway. Call Bind before serving.
func NewGateway(logger logging.Logger) *Gateway {
	if logger == nil {
		logger = logging.NewDefaultSlogLogger()
	}
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
		conns:  make(map[string]*wsConn),
	}
}

// Bind attaches the inbound message handler. The engine is constructed
// after the gateway (it needs the transport), so binding is deferred.
func (g *Gateway) Bind(h MessageHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handler = h
}

// Router returns the HTTP handler exposing the gateway.
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws/{conversationID}", g.handleWebSocket)

	return r
}

func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if conversationID == "" {
		http.Error(w, "conversation id required", http.StatusBadRequest)
		return
	}

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", "conversation_id", conversationID, "error", err)
		return
	}

	conn := &wsConn{ws: ws}
	g.register(conversationID, conn)
	defer g.unregister(conversationID, conn)
	defer ws.Close()

	g.logger.Info("conversation connected", "conversation_id", conversationID)

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Warn("websocket read failed", "conversation_id", conversationID, "error", err)
			}
			return
		}

		var in Envelope
		if err := json.Unmarshal(payload, &in); err != nil {
			g.logger.Warn("malformed inbound frame", "conversation_id", conversationID, "error", err)
			continue
		}
		if in.Text == "" {
			continue
		}

		g.mu.RLock()
		h := g.handler
		g.mu.RUnlock()
		if h == nil {
			g.logger.Warn("no handler bound, dropping message", "conversation_id", conversationID)
			continue
		}
		h.HandleMessage(r.Context(), conversationID, in.Text)
	}
}

func (g *Gateway) register(conversationID string, conn *wsConn) {
	g.mu.Lock()
	prev := g.conns[conversationID]
	g.conns[conversationID] = conn
	g.mu.Unlock()

	if prev != nil {
		_ = prev.ws.Close()
	}
}

func (g *Gateway) unregister(conversationID string, conn *wsConn) {
	g.mu.Lock()
	if g.conns[conversationID] == conn {
		delete(g.conns, conversationID)
	}
	g.mu.Unlock()
}

func (g *Gateway) lookup(conversationID string) (*wsConn, error) {
	g.mu.RLock()
	conn, ok := g.conns[conversationID]
	g.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("conversation %q not connected", conversationID)
	}
	return conn, nil
}

// SendText delivers a text frame to the conversation counterpart.
func (g *Gateway) SendText(_ context.Context, conversationID, text string) error {
	conn, err := g.lookup(conversationID)
	if err != nil {
		return err
	}
	return conn.writeJSON(Envelope{Type: "text", Text: text})
}

// SendMedia delivers an attachment with a caption. The file is read
// from disk and shipped inline; the JSON codec base64-encodes it.
func (g *Gateway) SendMedia(_ context.Context, conversationID string, media core.MediaRef, caption string) error {
	conn, err := g.lookup(conversationID)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(media.Path)
	if err != nil {
		return fmt.Errorf("read media %s: %w", media.Path, err)
	}
	return conn.writeJSON(Envelope{
		Type:     "media",
		Caption:  caption,
		MIMEType: media.MIMEType,
		Data:     data,
	})
}

var _ core.ChatTransport = (*Gateway)(nil)
