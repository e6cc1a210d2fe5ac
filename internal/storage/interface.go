package storage

import (
	"context"

	"github.com/ecardgame/ecard-server/internal/model"
)

// Storage defines the interface for room persistence. A room is stored as
// a single aggregate: players, scores, pending round and history together.
type Storage interface {
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
}
