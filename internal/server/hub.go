package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/chartkit/pkg/observability"
)

const (
	maxClients = 100
	sendBuffer = 8

	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

// Message types sent to live reload clients.
const (
	msgHello  = "hello"
	msgReload = "reload"
)

type message struct {
	Type string   `json:"type"`
	IDs  []string `json:"ids"`
}

// hub tracks live reload clients. Each client has its own writer goroutine,
// which is the only goroutine writing to the connection.
type hub struct {
	logger *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newHub(logger *log.Logger) *hub {
	return &hub{logger: logger, clients: make(map[*client]struct{})}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) add(c *client) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || len(h.clients) >= maxClients {
		return len(h.clients), false
	}
	h.clients[c] = struct{}{}
	return len(h.clients), true
}

// remove drops c and closes its send channel, which stops its writer.
func (h *hub) remove(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	return len(h.clients)
}

// send queues msg for c if it is still connected.
func (h *hub) send(c *client, msg message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// broadcast queues msg for every client. Clients whose buffer is full are
// dropped.
func (h *hub) broadcast(msg message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal live reload message", "err", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow live reload client", "remote", c.conn.RemoteAddr())
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// close disconnects every client and refuses new ones.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin allows requests without an Origin header and requests whose
// Origin host matches the Host header.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub.len() >= maxClients {
		http.Error(w, "Maximum clients reached", http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	n, ok := s.hub.add(c)
	if !ok {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server busy"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	ctx := r.Context()
	observability.Server().OnClients(ctx, n)

	var ids []string
	if snap, err := s.Snapshot(); err == nil {
		ids = snap.Charts.IDs()
	}
	s.hub.send(c, message{Type: msgHello, IDs: ids})

	go c.writeLoop()
	c.readLoop(s.logger)

	observability.Server().OnClients(ctx, s.hub.remove(c))
}

// readLoop discards client messages until the connection fails. Reading is
// needed to process pongs and notice disconnects.
func (c *client) readLoop(logger *log.Logger) {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read", "err", err)
			}
			return
		}
	}
}

// writeLoop sends queued messages and pings until send is closed.
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
