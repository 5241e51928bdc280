package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"dealboard/internal/middleware"
	"dealboard/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxConnsPerUser = 8
	maxTotalConns   = 10000
)

var (
	ErrServerFull = errors.New("server connection limit reached")
	ErrUserFull   = errors.New("user connection limit reached")
	ErrHubClosed  = errors.New("live feed is shutting down")
)

// Hub tracks live feed clients by the post they watch. Key 0 holds clients
// watching every post.
type Hub struct {
	mu      sync.RWMutex
	watch   map[uint]map[*Client]struct{}
	perUser map[uint]int
	total   int
	closed  bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		watch:   make(map[uint]map[*Client]struct{}),
		perUser: make(map[uint]int),
	}
}

// Register adds a connection for userID watching postID (0 for all posts).
func (h *Hub) Register(userID, postID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case h.closed:
		return nil, ErrHubClosed
	case h.total >= maxTotalConns:
		return nil, ErrServerFull
	case h.perUser[userID] >= maxConnsPerUser:
		return nil, ErrUserFull
	}

	client := &Client{
		hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		UserID: userID,
		PostID: postID,
	}
	m, ok := h.watch[postID]
	if !ok {
		m = make(map[*Client]struct{})
		h.watch[postID] = m
	}
	m[client] = struct{}{}
	h.perUser[userID]++
	h.total++
	observability.WebSocketConnections.Inc()
	return client, nil
}

// UnregisterClient removes client. It is safe to call more than once.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.watch[client.PostID]
	if !ok {
		return
	}
	if _, exists := m[client]; !exists {
		return
	}
	delete(m, client)
	if len(m) == 0 {
		delete(h.watch, client.PostID)
	}
	if h.perUser[client.UserID]--; h.perUser[client.UserID] <= 0 {
		delete(h.perUser, client.UserID)
	}
	h.total--
	close(client.Send)
	observability.WebSocketConnections.Dec()
}

// Deliver sends payload to clients watching postID and to clients watching everything.
func (h *Hub) Deliver(postID uint, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, key := range []uint{postID, 0} {
		for c := range h.watch[key] {
			if !c.trySend(payload) {
				dropped++
			}
		}
		if postID == 0 {
			break
		}
	}
	if dropped > 0 {
		middleware.Logger.Warn("live feed dropped messages",
			slog.Uint64("post_id", uint64(postID)), slog.Int("clients", dropped))
	}
}

// Count returns the number of registered clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

// StartWiring subscribes the hub to the notifier's post channels.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartSubscriber(ctx, func(channel, payload string) {
		postID, ok := parsePostChannel(channel)
		if !ok {
			middleware.Logger.Warn("invalid feed channel", slog.String("channel", channel))
			return
		}
		h.Deliver(postID, []byte(payload))
	})
}

// Shutdown closes every client's send queue; each write pump then sends a
// close frame and drops its connection.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	for _, clients := range h.watch {
		for c := range clients {
			close(c.Send)
			observability.WebSocketConnections.Dec()
		}
	}
	h.watch = make(map[uint]map[*Client]struct{})
	h.perUser = make(map[uint]int)
	h.total = 0
	return nil
}
