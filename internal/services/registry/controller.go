// Package registry manages room lifecycle: creation on first join, the
// password gate, capacity, role assignment and disconnect cleanup.
package registry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ecardgame/ecard-server/internal/dependencies/clock"
	"github.com/ecardgame/ecard-server/internal/model"
	"github.com/ecardgame/ecard-server/internal/services/match"
	"github.com/ecardgame/ecard-server/internal/storage"
)

// Controller validates joins and owns room creation and destruction
type Controller struct {
	storage storage.Storage
	match   *match.Controller
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new registry Controller
func NewController(storage storage.Storage, matchController *match.Controller, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		match:   matchController,
		clock:   clock,
		logger:  logger,
	}
}

// JoinRequest carries the fields of a join_room event
type JoinRequest struct {
	RoomID     model.RoomID
	Password   string
	Name       string
	RoleChoice string // "emperor", "slave" or empty for auto-assignment
}

// Join seats a player. The room is created on first reference to an
// unknown identifier; the second successful join starts the match.
func (c *Controller) Join(ctx context.Context, playerID model.PlayerID, req JoinRequest) ([]model.Event, error) {
	if req.RoomID == "" || req.Password == "" || req.Name == "" {
		return nil, model.ErrMissingFields
	}

	now := c.clock.Now()

	room, err := c.storage.GetRoom(ctx, req.RoomID)
	if errors.Is(err, model.ErrRoomNotFound) {
		room = model.NewRoom(req.RoomID, req.Password, now)
		c.logger.Info("room created", slog.String("room_id", string(req.RoomID)))
	} else if err != nil {
		return nil, err
	}

	if room.Password != req.Password {
		return nil, model.ErrWrongPassword
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	baseRole, err := assignRole(room, req.RoleChoice)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		ID:       playerID,
		Name:     req.Name,
		BaseRole: baseRole,
		Role:     baseRole,
		Hand:     model.NewHand(baseRole),
	}
	room.Players = append(room.Players, player)
	room.Score[playerID] = 0

	c.logger.Info("player joined",
		slog.String("room_id", string(room.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("name", req.Name),
		slog.String("base_role", string(baseRole)),
	)

	events := []model.Event{
		model.RoomEvent(model.EventPlayerList, room.ID, model.PlayerListPayload{Players: room.Roster()}),
	}

	if len(room.Players) == 1 {
		events = append(events, model.PlayerEvent(model.EventWaiting, room.ID, playerID, model.WaitingPayload{
			Message:  "waiting for an opponent... the match starts when a second player joins",
			BaseRole: baseRole,
		}))
	} else {
		events = append(events, c.match.StartMatch(room)...)
	}

	room.UpdatedAt = now
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return events, nil
}

// Leave removes a player from their room. The room is destroyed the
// instant its player set becomes empty; nothing is persisted afterwards.
func (c *Controller) Leave(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) ([]model.Event, error) {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.GetPlayer(playerID) == nil {
		return nil, model.ErrPlayerNotInRoom
	}

	for i, p := range room.Players {
		if p.ID == playerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}
	delete(room.Score, playerID)
	// A pending move from the leaver must not pair with the remaining
	// player's next move
	delete(room.PendingRound, playerID)

	c.logger.Info("player left",
		slog.String("room_id", string(room.ID)),
		slog.String("player_id", string(playerID)),
	)

	if len(room.Players) == 0 {
		if err := c.storage.DeleteRoom(ctx, room.ID); err != nil {
			return nil, err
		}
		c.logger.Info("room destroyed", slog.String("room_id", string(room.ID)))
		return nil, nil
	}

	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return []model.Event{model.RoomEvent(model.EventOpponentLeft, room.ID, nil)}, nil
}

// assignRole resolves an explicit role request or picks the unoccupied
// side; any unknown choice falls back to auto-assignment.
func assignRole(room *model.Room, choice string) (model.Role, error) {
	if requested := model.Role(choice); requested.Valid() {
		if room.HasBaseRole(requested) {
			return "", model.ErrRoleTaken
		}
		return requested, nil
	}

	if !room.HasBaseRole(model.RoleEmperor) {
		return model.RoleEmperor, nil
	}
	if !room.HasBaseRole(model.RoleSlave) {
		return model.RoleSlave, nil
	}
	// Unreachable while the capacity check holds
	return "", model.ErrNoRoleAvailable
}
