// Package relay forwards render-progress text from the GPU cluster to
// browsers over websockets. A client sends the literal trigger "send"; the
// relay then polls the cluster's progress endpoint on a fixed interval and
// pushes each response verbatim until progress reaches 100 percent, the
// client disconnects, or the server shuts down.
package relay

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/splatmarket/splatmarket/pkg/httpclient"
	"github.com/splatmarket/splatmarket/pkg/logger"
	"github.com/splatmarket/splatmarket/pkg/metrics"
	"github.com/splatmarket/splatmarket/pkg/response"
)

// Manager owns the connection registry and the shared poll client.
type Manager struct {
	pollURL  string
	interval time.Duration
	poller   *httpclient.Client
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool

	wg sync.WaitGroup
}

func NewManager(pollURL string, interval time.Duration) *Manager {
	return &Manager{
		pollURL:  pollURL,
		interval: interval,
		poller:   httpclient.New(10 * time.Second),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from another origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: map[*Client]struct{}{},
	}
}

// HandleWS upgrades the request and runs the connection until it closes.
func (m *Manager) HandleWS(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		response.Error(w, http.StatusServiceUnavailable, "Shutting down")
		return
	}
	m.mu.Unlock()

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := newClient(m, conn)

	m.mu.Lock()
	m.clients[client] = struct{}{}
	m.mu.Unlock()
	metrics.RelayConnections.Inc()

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		client.writePump()
	}()
	go func() {
		defer m.wg.Done()
		client.readPump()
	}()
}

// remove unregisters a client after its pumps stop.
func (m *Manager) remove(c *Client) {
	m.mu.Lock()
	if _, ok := m.clients[c]; ok {
		delete(m.clients, c)
		metrics.RelayConnections.Dec()
	}
	m.mu.Unlock()
}

// Shutdown stops accepting connections, closes every live one and waits for
// the pumps to drain or ctx to expire.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	clients := make([]*Client, 0, len(m.clients))
	for c := range m.clients {
		clients = append(clients, c)
	}
	m.mu.Unlock()

	for _, c := range clients {
		c.close()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
