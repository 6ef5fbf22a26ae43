package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/halo-viz/halo-go/internal/session"
)

const (
	writeTimeout     = 10 * time.Second
	clientSendBuffer = 16
)

// client is one WebSocket subscriber.
type client struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// hub tracks subscribers and fans the style table out to them. Slow
// subscribers are dropped rather than blocking a pass.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	log     *logrus.Logger
}

func newHub(log *logrus.Logger) *hub {
	return &hub{clients: make(map[*client]struct{}), log: log}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.closeSend()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast marshals the table once and queues it to every subscriber.
func (h *hub) broadcast(table session.StyleTable) {
	msg, err := json.Marshal(table)
	if err != nil {
		h.log.WithError(err).Warn("encoding style table")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Subscriber is not keeping up; drop it.
			delete(h.clients, c)
			c.closeSend()
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.closeSend()
	}
}

// handleWS upgrades the connection and streams the style table: the
// current table immediately, then one message per completed pass.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // renderer integrations connect cross-origin
	})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept")
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}
	s.hub.add(cl)

	// Seed the subscriber with the current table.
	if initial, err := json.Marshal(s.sess.Table()); err == nil {
		cl.send <- initial
	}

	ctx := c.Request.Context()
	go s.readPump(ctx, cl)
	s.writePump(ctx, cl)
}

// readPump discards inbound frames; its job is detecting disconnects.
func (s *Server) readPump(ctx context.Context, cl *client) {
	defer s.hub.remove(cl)
	for {
		if _, _, err := cl.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump drains the send channel onto the connection.
func (s *Server) writePump(ctx context.Context, cl *client) {
	defer func() {
		s.hub.remove(cl)
		_ = cl.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for msg := range cl.send {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := cl.conn.Write(writeCtx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			return
		}
	}
}
