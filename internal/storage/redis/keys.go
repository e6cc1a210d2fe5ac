package redis

import (
	"fmt"

	"github.com/ecardgame/ecard-server/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "ecard"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}
