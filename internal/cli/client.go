package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ServerEvent is one decoded server-to-client envelope
type ServerEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Session is a live websocket connection to the game server. Inbound
// events are decoded on a background goroutine and delivered on Events;
// the channel closes when the connection drops.
type Session struct {
	conn   *websocket.Conn
	events chan ServerEvent
}

// Connect dials the server's websocket endpoint. The server URL is the
// plain HTTP base address; the scheme is rewritten for the dial.
func Connect(serverURL string) (*Session, error) {
	wsURL, err := websocketURL(serverURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	s := &Session{
		conn:   conn,
		events: make(chan ServerEvent, 64),
	}
	go s.readLoop()
	return s, nil
}

// Events returns the stream of server events
func (s *Session) Events() <-chan ServerEvent {
	return s.events
}

// Join requests a seat in the given room. Role may be "emperor", "slave"
// or empty for auto-assignment.
func (s *Session) Join(roomID, password, name, role string) error {
	return s.send("join_room", map[string]string{
		"roomId":     roomID,
		"password":   password,
		"name":       name,
		"roleChoice": role,
	})
}

// Play submits a card for the current turn
func (s *Session) Play(card string) error {
	return s.send("play_card", map[string]string{"card": card})
}

// Close shuts the connection down cleanly
func (s *Session) Close() error {
	deadline := time.Now().Add(time.Second)
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return s.conn.Close()
}

func (s *Session) send(event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return s.conn.WriteJSON(ServerEvent{Event: event, Data: raw})
}

func (s *Session) readLoop() {
	defer close(s.events)
	for {
		var ev ServerEvent
		if err := s.conn.ReadJSON(&ev); err != nil {
			return
		}
		s.events <- ev
	}
}

func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server URL scheme: %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}
