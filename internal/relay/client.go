package relay

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/splatmarket/splatmarket/pkg/logger"
	"github.com/splatmarket/splatmarket/pkg/metrics"
)

// sentinel is the trigger text that starts the relay loop. Any other
// inbound text is ignored.
const sentinel = "send"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Client is one websocket session. At most one relay loop runs per client;
// a second trigger while relaying is ignored.
type Client struct {
	mgr  *Manager
	conn *websocket.Conn

	send chan string
	done chan struct{}

	mu      sync.Mutex
	busy    bool
	cancel  context.CancelFunc
	closing bool
}

func newClient(mgr *Manager, conn *websocket.Conn) *Client {
	return &Client{
		mgr:  mgr,
		conn: conn,
		send: make(chan string, 16),
		done: make(chan struct{}),
	}
}

// readPump blocks on inbound frames. The loop exits on any read error,
// which also covers client disconnects.
func (c *Client) readPump() {
	defer func() {
		c.close()
		c.mgr.remove(c)
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		if strings.TrimSpace(string(msg)) != sentinel {
			continue
		}

		c.mu.Lock()
		if c.busy || c.closing {
			c.mu.Unlock()
			continue
		}
		c.busy = true
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.mu.Unlock()

		go c.relay(ctx)
	}
}

// writePump serialises all writes to the connection and keeps it alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))    //nolint:errcheck
			c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
			return
		}
	}
}

// relay polls the progress endpoint and forwards each response verbatim.
// It stops when the reported progress reaches 100 percent, on cancellation,
// or when the poll fails.
func (c *Client) relay(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.cancel = nil
		c.mu.Unlock()
	}()

	ticker := time.NewTicker(c.mgr.interval)
	defer ticker.Stop()

	for {
		resp, err := c.mgr.poller.Get(ctx, c.mgr.pollURL)
		if err != nil {
			metrics.RelayPolls.WithLabelValues("error").Inc()
			logger.Error(ctx, "progress poll failed", "url", c.mgr.pollURL, "error", err)
			// Any error closes the session; the client reconnects to retry.
			c.close()
			return
		}
		metrics.RelayPolls.WithLabelValues("ok").Inc()

		body := string(resp.Body)
		select {
		case c.send <- body:
		case <-ctx.Done():
			return
		case <-c.done:
			return
		}

		if terminal(body) {
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		case <-c.done:
			return
		}
	}
}

// close tears the session down once: cancels any running relay loop and
// closes the underlying connection, which unblocks both pumps.
func (c *Client) close() {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return
	}
	c.closing = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	close(c.done)
	c.conn.Close() //nolint:errcheck
}

// terminal reports whether a progress payload represents a finished job.
// The cluster replies either with a bare number or a JSON object carrying a
// progress field; anything unparseable is treated as still running.
func terminal(body string) bool {
	trimmed := strings.TrimSpace(body)

	if n, err := strconv.ParseFloat(strings.TrimSuffix(trimmed, "%"), 64); err == nil {
		return n >= 100
	}

	var payload struct {
		Progress float64 `json:"progress"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		return payload.Progress >= 100
	}

	return false
}
