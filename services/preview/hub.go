// Package preview pushes page changes to the open live previews over websockets.
package preview

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/page"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// Message is sent to every preview of a page when the page is written.
type Message struct {
	Type        string    `json:"type"`
	PageID      string    `json:"page_id"`
	IsPublished bool      `json:"is_published"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type client struct {
	send chan Message
}

type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*client]struct{} // {page id: clients}
	closed  bool
	origins []string
	log     core.Logger
}

var _ page.Notifier = (*Hub)(nil)

// NewHub returns a Hub accepting connections from the given origin patterns (same host is always allowed).
func NewHub(logger core.Logger, originPatterns ...string) *Hub {
	if logger == nil {
		logger = core.NewDiscardLogger()
	}
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		origins: originPatterns,
		log:     logger,
	}
}

func (h *Hub) add(pageID string, c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.clients[pageID] == nil {
		h.clients[pageID] = make(map[*client]struct{})
	}
	h.clients[pageID][c] = struct{}{}
	return true
}

func (h *Hub) remove(pageID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.clients[pageID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.clients, pageID)
		}
	}
}

// Subscribers returns the number of previews open on a page.
func (h *Hub) Subscribers(pageID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[pageID])
}

// PageChanged implements page.Notifier. Slow previews miss messages rather than block the writer.
func (h *Hub) PageChanged(p page.Page) {
	msg := Message{Type: "page_changed", PageID: p.ID, IsPublished: p.IsPublished, UpdatedAt: p.UpdatedAt}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[p.ID] {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("preview: dropping message for slow client", map[string]interface{}{"page_id": p.ID})
		}
	}
}

// Serve upgrades the request and streams the changes of pageID until the client goes away or the hub closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, pageID string) error {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		return errors.Wrap(err, "accepting websocket")
	}
	defer func() { _ = conn.CloseNow() }()

	c := &client{send: make(chan Message, sendBuffer)}
	if !h.add(pageID, c) {
		return conn.Close(websocket.StatusGoingAway, "shutting down")
	}
	defer h.remove(pageID, c)

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-c.send:
			if !ok {
				return conn.Close(websocket.StatusGoingAway, "shutting down")
			}
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err = wsjson.Write(wctx, conn, msg)
			cancel()
			if err != nil {
				if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
					h.log.Warn("preview: write failed", err)
				}
				return nil
			}
		}
	}
}

// Close disconnects every preview; later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for pageID, subs := range h.clients {
		for c := range subs {
			close(c.send)
		}
		delete(h.clients, pageID)
	}
}
