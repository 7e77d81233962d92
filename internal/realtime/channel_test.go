package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quorum-sh/quorum/internal/schedule"
)

// wsServer accepts one websocket connection at a time and exposes the
// frames it receives.
type wsServer struct {
	t        *testing.T
	srv      *httptest.Server
	conns    chan *websocket.Conn
	received chan []byte
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()
	ws := &wsServer{
		t:        t,
		conns:    make(chan *websocket.Conn, 4),
		received: make(chan []byte, 16),
	}
	upgrader := websocket.Upgrader{}
	ws.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		ws.conns <- conn
		go func() {
			for {
				_, raw, err := conn.ReadMessage()
				if err != nil {
					return
				}
				ws.received <- raw
			}
		}()
	}))
	t.Cleanup(ws.srv.Close)
	return ws
}

func (ws *wsServer) url() string {
	return "ws://" + strings.TrimPrefix(ws.srv.URL, "http://")
}

func (ws *wsServer) conn() *websocket.Conn {
	select {
	case c := <-ws.conns:
		return c
	case <-time.After(2 * time.Second):
		ws.t.Fatal("no websocket connection arrived")
		return nil
	}
}

func (ws *wsServer) next() []byte {
	select {
	case raw := <-ws.received:
		return raw
	case <-time.After(2 * time.Second):
		ws.t.Fatal("no frame arrived")
		return nil
	}
}

func openChannel(t *testing.T, ws *wsServer) *Channel {
	t.Helper()
	c := NewChannel(Options{
		URL:       ws.url(),
		BaseDelay: 5 * time.Millisecond,
		MaxDelay:  20 * time.Millisecond,
	})
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestChannelRepliesPong(t *testing.T) {
	ws := newWSServer(t)
	openChannel(t, ws)
	conn := ws.conn()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if got := string(ws.next()); got != "pong" {
		t.Errorf("reply = %q, want pong", got)
	}
}

func TestChannelDispatchesPatches(t *testing.T) {
	ws := newWSServer(t)
	c := openChannel(t, ws)

	got := make(chan schedule.Patch, 1)
	c.AddMessageHandler(schedule.PatchEditEventName, func(p schedule.Patch) { got <- p })

	conn := ws.conn()
	frame := `{"messageType":"editEventName","payload":{"eventName":"retro"}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case p := <-got:
		if p.EventName != "retro" {
			t.Errorf("EventName = %q", p.EventName)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("patch never dispatched")
	}
}

func TestChannelSurvivesBadFrames(t *testing.T) {
	ws := newWSServer(t)
	c := openChannel(t, ws)

	got := make(chan schedule.Patch, 1)
	c.AddMessageHandler(schedule.PatchEditEventName, func(p schedule.Patch) { got <- p })

	conn := ws.conn()
	for _, frame := range []string{
		`{"messageType":"surpriseFeature","payload":{}}`,
		`{{{not json`,
		`{"messageType":"editEventName","payload":{"eventName":"still here"}}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case p := <-got:
		if p.EventName != "still here" {
			t.Errorf("EventName = %q", p.EventName)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("good frame after bad frames was not dispatched")
	}
}

func TestChannelPublishSchedule(t *testing.T) {
	ws := newWSServer(t)
	c := openChannel(t, ws)
	ws.conn()

	grid := schedule.Grid{{true, false}, {false, true}}
	c.PublishSchedule("ana", grid)

	var frame map[string]json.RawMessage
	if err := json.Unmarshal(ws.next(), &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	var messageType string
	json.Unmarshal(frame["message_type"], &messageType)
	if messageType != "editSchedule" {
		t.Fatalf("message_type = %q", messageType)
	}
	var payload struct {
		UserName     string   `json:"user_name"`
		UserSchedule [][]bool `json:"user_schedule"`
	}
	if err := json.Unmarshal(frame["payload"], &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.UserName != "ana" || !payload.UserSchedule[0][0] || payload.UserSchedule[0][1] {
		t.Errorf("payload = %+v", payload)
	}
}

func TestChannelSendAbsent(t *testing.T) {
	ws := newWSServer(t)
	c := openChannel(t, ws)
	ws.conn()

	c.SendAbsent("ana", strptr("on leave"))
	if got := string(ws.next()); !strings.Contains(got, `"absent_reason":"on leave"`) {
		t.Errorf("frame = %s", got)
	}

	c.SendAbsent("ana", nil)
	if got := string(ws.next()); !strings.Contains(got, `"absent_reason":null`) {
		t.Errorf("frame = %s", got)
	}
}

func TestChannelReconnects(t *testing.T) {
	ws := newWSServer(t)
	states := make(chan State, 16)
	c := NewChannel(Options{
		URL:           ws.url(),
		BaseDelay:     5 * time.Millisecond,
		MaxDelay:      20 * time.Millisecond,
		OnStateChange: func(s State) { states <- s },
	})
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	first := ws.conn()
	first.Close()

	// A second connection must arrive without any help from us.
	second := ws.conn()

	got := make(chan schedule.Patch, 1)
	c.AddMessageHandler(schedule.PatchEditEventName, func(p schedule.Patch) { got <- p })
	frame := `{"messageType":"editEventName","payload":{"eventName":"back"}}`
	if err := second.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case p := <-got:
		if p.EventName != "back" {
			t.Errorf("EventName = %q", p.EventName)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("patch not dispatched after reconnect")
	}

	var sawDisconnected bool
	for len(states) > 0 {
		if <-states == StateDisconnected {
			sawDisconnected = true
		}
	}
	if !sawDisconnected {
		t.Error("state listener never saw the disconnect")
	}
}

func TestChannelSendWhileDisconnectedIsDropped(t *testing.T) {
	c := NewChannel(Options{URL: "ws://127.0.0.1:1"})
	// Must not panic or block.
	c.PublishSchedule("ana", schedule.Grid{{true}})
	c.SendUserName("ana")
	if got := c.State(); got != StateDisconnected {
		t.Errorf("state = %v, want disconnected", got)
	}
}

func TestChannelCloseStopsReconnect(t *testing.T) {
	ws := newWSServer(t)
	c := openChannel(t, ws)
	first := ws.conn()

	c.Close()
	first.Close()

	select {
	case <-ws.conns:
		t.Error("channel reconnected after Close")
	case <-time.After(100 * time.Millisecond):
	}
	if got := c.State(); got != StateClosed {
		t.Errorf("state = %v, want closed", got)
	}
}
