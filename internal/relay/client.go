package relay

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"photomarket/internal/domain"
)

type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	default:
		return "DISCONNECTED"
	}
}

// EventSource retries on a fixed delay; this client mirrors that instead of
// layering its own backoff.
const reconnectDelay = 3 * time.Second

// Client keeps a Mirror synchronized with the notification stream and runs
// the optimistic mutation flows against the REST API.
type Client struct {
	api    *API
	mirror *Mirror
	log    *zap.Logger

	// OnNotify fires for each freshly pushed notification, after the
	// mirror is updated. Best effort: a nil hook is skipped and the
	// stream never waits on it.
	OnNotify func(domain.Notification)

	mu    sync.RWMutex
	state ConnState
}

func NewClient(api *API, log *zap.Logger) *Client {
	return &Client{
		api:    api,
		mirror: NewMirror(),
		log:    log,
		state:  StateDisconnected,
	}
}

func (c *Client) Mirror() *Mirror { return c.mirror }

func (c *Client) State() ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run connects, refreshes, and consumes stream events until ctx is
// cancelled. Transport failures move the client to RECONNECTING and it
// retries on its own.
func (c *Client) Run(ctx context.Context) error {
	defer c.setState(StateDisconnected)

	first := true
	for {
		if first {
			c.setState(StateConnecting)
			first = false
		} else {
			c.setState(StateReconnecting)
		}

		err := c.connectAndConsume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("notification stream dropped", zap.Error(err))

		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) connectAndConsume(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api.baseURL+"/api/notifications/stream", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.api.token)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.api.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Code: "STREAM_REJECTED", Message: resp.Status, Status: resp.StatusCode}
	}

	c.setState(StateConnected)

	// The mirror may have missed pushes while disconnected; a full fetch
	// resyncs it.
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn("notification refresh failed", zap.Error(err))
	}

	return c.consume(resp.Body)
}

// consume parses the event-stream line protocol: "event:" and "data:"
// fields accumulate until a blank line dispatches them.
func (c *Client) consume(body io.Reader) error {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	var event string
	var data strings.Builder

	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				c.dispatch(event, data.String())
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
			// comment, keepalive
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	return sc.Err()
}

// dispatch applies one pushed event. A malformed payload is logged and
// dropped; it never takes the stream down.
func (c *Client) dispatch(event, data string) {
	switch event {
	case "", "message":
		// heartbeat / connection ack

	case "notification":
		var n domain.Notification
		if err := json.Unmarshal([]byte(data), &n); err != nil {
			c.log.Warn("bad notification payload", zap.Error(err))
			return
		}
		c.mirror.ApplyNew(n)
		if c.OnNotify != nil {
			c.OnNotify(n)
		}

	case "notification-update":
		var n domain.Notification
		if err := json.Unmarshal([]byte(data), &n); err != nil {
			c.log.Warn("bad notification-update payload", zap.Error(err))
			return
		}
		c.mirror.ApplyUpdate(n)

	case "notification-delete":
		var p struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			c.log.Warn("bad notification-delete payload", zap.Error(err))
			return
		}
		c.mirror.ApplyDelete(p.ID)

	case "unread-count":
		var p struct {
			UnreadCount int64 `json:"unread_count"`
		}
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			c.log.Warn("bad unread-count payload", zap.Error(err))
			return
		}
		c.mirror.SetUnread(p.UnreadCount)

	default:
		c.log.Debug("unknown stream event", zap.String("event", event))
	}
}

// Refresh replaces the mirror with a full fetch. The error is returned so
// callers can show a retryable failure instead of an empty list.
func (c *Client) Refresh(ctx context.Context) error {
	list, unread, total, err := c.api.FetchNotifications(ctx)
	if err != nil {
		return err
	}
	c.mirror.Replace(list, unread, total)
	return nil
}

// MarkRead applies the optimistic local flip first, then confirms with the
// server. On failure the mirror is refetched wholesale rather than rolled
// back field by field.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	c.mirror.MarkReadLocal(id)

	if err := c.api.MarkRead(ctx, id); err != nil {
		if rerr := c.Refresh(ctx); rerr != nil {
			c.log.Warn("refresh after failed mark-read", zap.Error(rerr))
		}
		return err
	}
	return nil
}

// ClearAll deletes every held notification concurrently, then refetches
// regardless of individual failures. Missing ids delete as a success
// server-side, so a concurrent push cannot wedge the flow.
func (c *Client) ClearAll(ctx context.Context) error {
	ids := c.mirror.IDs()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := c.api.Delete(ctx, id); err != nil {
				c.log.Warn("delete notification failed", zap.Int64("id", id), zap.Error(err))
			}
		}(id)
	}
	wg.Wait()

	return c.Refresh(ctx)
}
