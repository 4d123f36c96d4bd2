// Package push maintains the live notification connection. One channel per
// signed-in user: it subscribes to the user's notification and unread-count
// topics, feeds inbound frames into the notification store, and reconnects
// with exponential backoff on any disconnect not initiated by Close.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"leavectl/internal/model"
	"leavectl/internal/session"
	"leavectl/internal/store"
)

type Status int

const (
	Disconnected Status = iota
	Connecting
	Connected
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Frame is the wire envelope in both directions.
type Frame struct {
	ID          string          `json:"id,omitempty"`
	Type        string          `json:"type"`
	Destination string          `json:"destination,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}

const (
	frameSubscribe    = "subscribe"
	frameSend         = "send"
	frameNotification = "notification"
	frameCount        = "count"
)

const (
	destConnect    = "/app/connect"
	destReadOne    = "/app/notifications/read"
	destReadAll    = "/app/notifications/read-all"
	destDisconnect = "/app/disconnect"
)

// Endpoint derives the push URL from the API base URL: the API path prefix
// is stripped and the scheme switched to ws(s).
func Endpoint(apiBaseURL, pushPath string) (string, error) {
	parsed, err := url.Parse(apiBaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing api base url: %w", err)
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	parsed.Path = pushPath
	parsed.RawQuery = ""
	return parsed.String(), nil
}

type Channel struct {
	endpoint      string
	sessions      *session.Manager
	notifications *store.Notifications
	log           *slog.Logger
	dialer        *websocket.Dialer

	mu       sync.Mutex
	conn     *websocket.Conn
	status   Status
	failures int
	closed   bool
	userID   string

	// The websocket supports one concurrent writer only.
	writeMu sync.Mutex
}

func New(endpoint string, sessions *session.Manager, notifications *store.Notifications, log *slog.Logger) *Channel {
	if log == nil {
		log = slog.Default()
	}
	return &Channel{
		endpoint:      endpoint,
		sessions:      sessions,
		notifications: notifications,
		log:           log,
		dialer:        websocket.DefaultDialer,
	}
}

func (c *Channel) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Connect dials the push endpoint and starts the read loop. The handshake
// carries the bearer token as a query parameter and as a bare Authorization
// header, without the "Bearer" prefix.
func (c *Channel) Connect(ctx context.Context, userID string) error {
	pair, ok := c.sessions.Get()
	if !ok || pair.Token == "" {
		return fmt.Errorf("push connect: no session token")
	}

	c.mu.Lock()
	if c.status != Disconnected {
		c.mu.Unlock()
		return fmt.Errorf("push connect: already %s", c.status)
	}
	c.status = Connecting
	c.closed = false
	c.userID = userID
	c.mu.Unlock()

	endpoint := c.endpoint
	if strings.Contains(endpoint, "?") {
		endpoint += "&token=" + url.QueryEscape(pair.Token)
	} else {
		endpoint += "?token=" + url.QueryEscape(pair.Token)
	}
	header := http.Header{}
	header.Set("Authorization", pair.Token)

	conn, _, err := c.dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		c.mu.Lock()
		c.status = Disconnected
		c.failures++
		failures := c.failures
		c.mu.Unlock()
		c.scheduleReconnect(failures)
		return fmt.Errorf("push connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.status = Connected
	c.failures = 0
	c.mu.Unlock()

	c.subscribe(conn, userID)
	go c.readLoop(conn)

	c.log.Info("push channel connected", "endpoint", c.endpoint)
	return nil
}

func (c *Channel) subscribe(conn *websocket.Conn, userID string) {
	frames := []Frame{
		{ID: uuid.NewString(), Type: frameSubscribe, Destination: "/user/" + userID + "/notifications"},
		{ID: uuid.NewString(), Type: frameSubscribe, Destination: "/user/" + userID + "/unread-count"},
		{ID: uuid.NewString(), Type: frameSend, Destination: destConnect},
	}
	for _, f := range frames {
		if err := c.writeFrame(conn, f); err != nil {
			c.log.Warn("push subscribe write failed", "destination", f.Destination, "err", err)
			return
		}
	}
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.conn = nil
			c.status = Disconnected
			if !closed {
				c.failures++
			}
			failures := c.failures
			userID := c.userID
			c.mu.Unlock()

			if closed {
				return
			}
			c.log.Warn("push channel dropped", "err", err)
			c.scheduleReconnectFor(failures, userID)
			return
		}
		c.handle(f)
	}
}

func (c *Channel) handle(f Frame) {
	switch f.Type {
	case frameNotification:
		var n model.Notification
		if err := json.Unmarshal(f.Body, &n); err != nil {
			c.log.Warn("push notification decode failed", "err", err)
			return
		}
		c.notifications.ApplyIncoming(n)
	case frameCount:
		var body struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(f.Body, &body); err != nil {
			c.log.Warn("push count decode failed", "err", err)
			return
		}
		c.notifications.SetUnreadCount(body.Count)
	default:
		c.log.Debug("push frame ignored", "type", f.Type)
	}
}

func (c *Channel) scheduleReconnect(failures int) {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()
	c.scheduleReconnectFor(failures, userID)
}

// scheduleReconnectFor waits Delay(failures) then redials. Past maxAttempts
// the channel stays disconnected until the next explicit Connect.
func (c *Channel) scheduleReconnectFor(failures int, userID string) {
	if failures > maxAttempts {
		c.log.Warn("push reconnect attempts exhausted", "failures", failures)
		return
	}
	delay := Delay(failures)
	c.log.Info("push reconnect scheduled", "delay", delay, "failures", failures)
	time.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.closed || c.status != Disconnected {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		if err := c.Connect(context.Background(), userID); err != nil {
			c.log.Warn("push reconnect failed", "err", err)
		}
	})
}

// MarkRead publishes the read command and applies the optimistic local
// update immediately. There is deliberately no rollback when the publish
// fails; the next REST fetch reconciles.
func (c *Channel) MarkRead(id string) {
	c.notifications.MarkReadLocal(id)
	c.send(Frame{
		ID:          uuid.NewString(),
		Type:        frameSend,
		Destination: destReadOne,
		Body:        json.RawMessage(fmt.Sprintf(`{"id":%q}`, id)),
	})
}

func (c *Channel) MarkAllRead() {
	c.notifications.MarkAllReadLocal()
	c.send(Frame{ID: uuid.NewString(), Type: frameSend, Destination: destReadAll})
}

func (c *Channel) send(f Frame) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.log.Debug("push send skipped, not connected", "destination", f.Destination)
		return
	}
	if err := c.writeFrame(conn, f); err != nil {
		c.log.Warn("push send failed", "destination", f.Destination, "err", err)
	}
}

func (c *Channel) writeFrame(conn *websocket.Conn, f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(f)
}

// Close publishes a disconnect frame best-effort and tears the connection
// down unconditionally. No reconnect is scheduled.
func (c *Channel) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.status = Disconnected
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	if err := c.writeFrame(conn, Frame{ID: uuid.NewString(), Type: frameSend, Destination: destDisconnect}); err != nil {
		c.log.Debug("push disconnect frame failed", "err", err)
	}
	return conn.Close()
}
