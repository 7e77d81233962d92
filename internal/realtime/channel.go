package realtime

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quorum-sh/quorum/internal/schedule"
)

// ErrClosed is returned by Open after Close has been called.
var ErrClosed = errors.New("realtime channel closed")

// State is the connection lifecycle of a Channel.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Logger receives protocol events worth keeping: drops, reconnects,
// unknown frames. The TUI's debug log plugs in here.
type Logger interface {
	Log(event string, fields map[string]any)
}

type nopLogger struct{}

func (nopLogger) Log(string, map[string]any) {}

// Handler consumes one decoded patch. Handlers run on the read loop
// goroutine; keep them short (the TUI handler just forwards a message).
type Handler func(schedule.Patch)

// Options configures a Channel. URL is required; zero durations get the
// defaults below.
type Options struct {
	URL string
	// Jar carries the REST session cookie so the dial authenticates.
	Jar http.CookieJar
	// Reconnect backoff: BaseDelay doubles per failed attempt up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Logger    Logger
	// OnStateChange is called after every transition, outside any lock.
	OnStateChange func(State)
}

const (
	defaultBaseDelay = 500 * time.Millisecond
	defaultMaxDelay  = 30 * time.Second
)

// Channel is one live websocket session. Outbound sends are
// fire-and-forget: a send on a broken connection is dropped and the
// reconnect loop restores the link; the server rebroadcasts full state on
// the next edit, so a dropped frame costs staleness, not corruption.
type Channel struct {
	opts Options

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	handlers map[schedule.PatchType]Handler

	wmu sync.Mutex // gorilla allows one concurrent writer

	done chan struct{}
}

func NewChannel(opts Options) *Channel {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.MaxDelay < opts.BaseDelay {
		opts.MaxDelay = defaultMaxDelay
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	return &Channel{
		opts:     opts,
		handlers: make(map[schedule.PatchType]Handler),
		done:     make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AddMessageHandler registers the handler for a patch type, replacing any
// previous one.
func (c *Channel) AddMessageHandler(t schedule.PatchType, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[t] = h
}

// RemoveMessageHandler unregisters the handler for a patch type.
func (c *Channel) RemoveMessageHandler(t schedule.PatchType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, t)
}

// Open dials the room and starts the read loop. It returns once the
// connection is established; reconnection after that is automatic.
func (c *Channel) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateClosed || c.state == StateClosing {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	c.setState(StateConnecting)
	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected)
		return err
	}
	c.adopt(conn)
	return nil
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		Jar:              c.opts.Jar,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, c.opts.URL, nil)
	return conn, err
}

func (c *Channel) adopt(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.setState(StateOpen)
	go c.readLoop(conn)
}

// Close tears the session down permanently. Safe to call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosing
	conn := c.conn
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.mu.Unlock()

	if conn != nil {
		c.wmu.Lock()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wmu.Unlock()
		conn.Close()
	}
	c.setState(StateClosed)
}

func (c *Channel) closing() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	changed := c.state != s
	c.state = s
	c.mu.Unlock()
	if changed && c.opts.OnStateChange != nil {
		c.opts.OnStateChange(s)
	}
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		kind, raw, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			if c.closing() {
				return
			}
			c.opts.Logger.Log("ws_read_error", map[string]any{"error": err.Error()})
			c.setState(StateDisconnected)
			go c.reconnectLoop()
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		// Liveness frames are plain text, not JSON.
		switch string(raw) {
		case "ping":
			c.writeText(conn, []byte("pong"))
			continue
		case "pong":
			continue
		}

		patch, err := decodePatch(raw)
		if err != nil {
			// One bad frame never takes the session down.
			c.opts.Logger.Log("ws_frame_dropped", map[string]any{"error": err.Error()})
			continue
		}
		c.dispatch(patch)
	}
}

func (c *Channel) dispatch(p schedule.Patch) {
	c.mu.Lock()
	h := c.handlers[p.Type]
	c.mu.Unlock()
	if h == nil {
		c.opts.Logger.Log("ws_no_handler", map[string]any{"type": p.Type.String()})
		return
	}
	h(p)
}

func (c *Channel) reconnectLoop() {
	delay := c.opts.BaseDelay
	for {
		select {
		case <-c.done:
			return
		case <-time.After(delay):
		}

		c.setState(StateConnecting)
		conn, err := c.dial(context.Background())
		if err == nil {
			c.opts.Logger.Log("ws_reconnected", nil)
			c.adopt(conn)
			return
		}

		c.opts.Logger.Log("ws_reconnect_failed", map[string]any{
			"error":    err.Error(),
			"delay_ms": delay.Milliseconds(),
		})
		c.setState(StateDisconnected)
		delay *= 2
		if delay > c.opts.MaxDelay {
			delay = c.opts.MaxDelay
		}
	}
}

// send marshals and writes one outbound frame. Fire-and-forget: errors
// are logged and the frame is dropped.
func (c *Channel) send(messageType string, payload any) {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()
	if state != StateOpen || conn == nil {
		c.opts.Logger.Log("ws_send_dropped", map[string]any{"type": messageType, "state": state.String()})
		return
	}

	c.wmu.Lock()
	err := conn.WriteJSON(outboundFrame{MessageType: messageType, Payload: payload})
	c.wmu.Unlock()
	if err != nil {
		c.opts.Logger.Log("ws_send_error", map[string]any{"type": messageType, "error": err.Error()})
	}
}

func (c *Channel) writeText(conn *websocket.Conn, raw []byte) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	conn.WriteMessage(websocket.TextMessage, raw)
}

// PublishSchedule broadcasts the user's full availability grid. It is the
// reconciler's publisher.
func (c *Channel) PublishSchedule(userName string, grid schedule.Grid) {
	c.send("editSchedule", editSchedulePayload{
		UserName:     userName,
		UserSchedule: grid,
	})
}

// SendUserName broadcasts a display-name change.
func (c *Channel) SendUserName(name string) {
	c.send("editUserName", editNamePayload{Name: name})
}

// SendEventName broadcasts an event-name change. The server ignores it
// for non-owners.
func (c *Channel) SendEventName(name string) {
	c.send("editEventName", editNamePayload{Name: name})
}

// SendAbsent broadcasts the user's absence. A nil reason marks them
// present again.
func (c *Channel) SendAbsent(userName string, reason *string) {
	c.send("editIsAbsent", editIsAbsentPayload{
		UserName:     userName,
		AbsentReason: reason,
	})
}
