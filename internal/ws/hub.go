// Package ws is the websocket transport/session layer. It assigns
// connection IDs, tracks client-to-room bindings and funnels every
// inbound event through a single goroutine, so room state transitions
// are applied one at a time.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ecardgame/ecard-server/internal/dependencies/random"
	"github.com/ecardgame/ecard-server/internal/model"
	"github.com/ecardgame/ecard-server/internal/services/match"
	"github.com/ecardgame/ecard-server/internal/services/registry"
)

// Inbound event names
const (
	msgJoinRoom = "join_room"
	msgPlayCard = "play_card"
)

const clientIDLength = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The room password is the access gate; the endpoint itself is open
	CheckOrigin: func(r *http.Request) bool { return true },
}

type eventKind int

const (
	kindMessage eventKind = iota
	kindDisconnect
)

type inboundEvent struct {
	kind   eventKind
	client *Client
	env    Envelope
}

// Hub owns all live connections and dispatches inbound events to the
// registry and match controllers, then routes the resulting outbound
// events back to players.
type Hub struct {
	registry *registry.Controller
	match    *match.Controller
	random   random.Random
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[model.PlayerID]*Client
	rooms   map[model.PlayerID]model.RoomID // client -> joined room

	inbound chan inboundEvent
	done    chan struct{}
}

// NewHub creates a new Hub
func NewHub(registryController *registry.Controller, matchController *match.Controller, rnd random.Random, logger *slog.Logger) *Hub {
	return &Hub{
		registry: registryController,
		match:    matchController,
		random:   rnd,
		logger:   logger.With(slog.String("component", "ws")),
		clients:  make(map[model.PlayerID]*Client),
		rooms:    make(map[model.PlayerID]model.RoomID),
		inbound:  make(chan inboundEvent, 256),
		done:     make(chan struct{}),
	}
}

// Run drains the inbound queue until Close is called. All room mutations
// happen on this goroutine.
func (h *Hub) Run() {
	h.logger.Info("hub started")
	for {
		select {
		case ev := <-h.inbound:
			h.handle(ev)
		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped")
			return
		}
	}
}

// Close shuts down the hub and disconnects all clients
func (h *Hub) Close() {
	close(h.done)
}

// ServeWS upgrades an HTTP request to a websocket connection and starts
// the client's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		id:          model.PlayerID(h.random.String(clientIDLength, random.ClientIDAlphabet)),
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("client_id", string(client.id)),
		slog.Int("total_clients", clientCount),
	)

	go client.writePump()
	go client.readPump(h)
}

func (h *Hub) enqueue(ev inboundEvent) {
	select {
	case h.inbound <- ev:
	case <-h.done:
	}
}

func (h *Hub) handle(ev inboundEvent) {
	ctx := context.Background()

	switch {
	case ev.kind == kindDisconnect:
		h.handleDisconnect(ctx, ev.client)
	case ev.env.Event == msgJoinRoom:
		h.handleJoin(ctx, ev.client, ev.env.Data)
	case ev.env.Event == msgPlayCard:
		h.handlePlay(ctx, ev.client, ev.env.Data)
	default:
		h.logger.Warn("unknown inbound event",
			slog.String("client_id", string(ev.client.id)),
			slog.String("event", ev.env.Event),
		)
	}
}

type joinMessage struct {
	RoomID     model.RoomID `json:"roomId"`
	Password   string       `json:"password"`
	Name       string       `json:"name"`
	RoleChoice string       `json:"roleChoice,omitempty"`
}

func (h *Hub) handleJoin(ctx context.Context, client *Client, data json.RawMessage) {
	if _, bound := h.roomFor(client.id); bound {
		h.sendError(client, "you are already in a room")
		return
	}

	var msg joinMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(client, model.ErrMissingFields.Error())
		return
	}

	events, err := h.registry.Join(ctx, client.id, registry.JoinRequest{
		RoomID:     msg.RoomID,
		Password:   msg.Password,
		Name:       msg.Name,
		RoleChoice: msg.RoleChoice,
	})
	if err != nil {
		h.reportError(client, err)
		return
	}

	h.mu.Lock()
	h.rooms[client.id] = msg.RoomID
	h.mu.Unlock()

	h.dispatch(events)
}

type playMessage struct {
	Card model.CardKind `json:"card"`
}

func (h *Hub) handlePlay(ctx context.Context, client *Client, data json.RawMessage) {
	roomID, bound := h.roomFor(client.id)
	if !bound {
		// Stale event from a client that never joined; drop it
		return
	}

	var msg playMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(client, model.ErrInvalidCard.Error())
		return
	}

	events, err := h.match.PlayCard(ctx, roomID, client.id, msg.Card)
	if err != nil {
		h.reportError(client, err)
		return
	}

	h.dispatch(events)
}

func (h *Hub) handleDisconnect(ctx context.Context, client *Client) {
	roomID, bound := h.roomFor(client.id)

	h.mu.Lock()
	if current, ok := h.clients[client.id]; ok && current == client {
		delete(h.clients, client.id)
		close(client.send)
	}
	delete(h.rooms, client.id)
	h.mu.Unlock()

	h.logger.Info("client disconnected",
		slog.String("client_id", string(client.id)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
	)

	if !bound {
		return
	}

	events, err := h.registry.Leave(ctx, roomID, client.id)
	if err != nil {
		// Already-gone rooms and players are stale references, not failures
		if !model.UserFacing(err) {
			h.logger.Debug("stale disconnect",
				slog.String("client_id", string(client.id)),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	h.dispatch(events)
}

// dispatch routes controller events to their targets in order
func (h *Hub) dispatch(events []model.Event) {
	for _, ev := range events {
		data, err := json.Marshal(outEnvelope{Event: string(ev.Type), Data: ev.Payload})
		if err != nil {
			h.logger.Error("failed to marshal event",
				slog.String("event", string(ev.Type)),
				slog.String("error", err.Error()),
			)
			continue
		}

		if ev.To != "" {
			h.sendTo(ev.To, data)
			continue
		}

		h.mu.RLock()
		var targets []*Client
		for clientID, roomID := range h.rooms {
			if roomID != ev.Room {
				continue
			}
			if client, ok := h.clients[clientID]; ok {
				targets = append(targets, client)
			}
		}
		h.mu.RUnlock()

		for _, client := range targets {
			h.deliver(client, data)
		}
	}
}

func (h *Hub) sendTo(id model.PlayerID, data []byte) {
	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if ok {
		h.deliver(client, data)
	}
}

func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("client_id", string(client.id)),
		)
	}
}

// reportError surfaces a rejection to the sender, or drops it when it is
// a stale reference rather than a user-visible condition.
func (h *Hub) reportError(client *Client, err error) {
	if model.UserFacing(err) {
		h.sendError(client, err.Error())
		return
	}
	h.logger.Debug("dropped stale or internal error",
		slog.String("client_id", string(client.id)),
		slog.String("error", err.Error()),
	)
}

func (h *Hub) sendError(client *Client, message string) {
	data, err := json.Marshal(outEnvelope{Event: string(model.EventError), Data: message})
	if err != nil {
		return
	}
	h.deliver(client, data)
}

func (h *Hub) roomFor(id model.PlayerID) (model.RoomID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	roomID, ok := h.rooms[id]
	return roomID, ok
}
