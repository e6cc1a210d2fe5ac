package model

import "errors"

// Common errors used across the application
var (
	// Join validation errors
	ErrMissingFields   = errors.New("room id, password and name are all required")
	ErrWrongPassword   = errors.New("wrong password for that room")
	ErrRoomFull        = errors.New("this room is full (2 players max)")
	ErrRoleTaken       = errors.New("that role is already taken")
	ErrNoRoleAvailable = errors.New("no role is available in this room")

	// Illegal-action errors
	ErrNoOpponent    = errors.New("waiting for an opponent to join")
	ErrMatchFinished = errors.New("this match has already finished all 12 games")
	ErrGameDecided   = errors.New("this game is already decided; wait for the next one")
	ErrCardExhausted = errors.New("you have no copies of that card left")
	ErrInvalidCard   = errors.New("unknown card kind")

	// Structural errors; stale references, never surfaced to players
	ErrRoomNotFound    = errors.New("room not found")
	ErrPlayerNotInRoom = errors.New("player is not in this room")
)

// userErrors are the rejections reported back to the sender as error_msg.
// Anything else is treated as a stale event or an internal failure.
var userErrors = []error{
	ErrMissingFields,
	ErrWrongPassword,
	ErrRoomFull,
	ErrRoleTaken,
	ErrNoRoleAvailable,
	ErrNoOpponent,
	ErrMatchFinished,
	ErrGameDecided,
	ErrCardExhausted,
	ErrInvalidCard,
}

// UserFacing reports whether err should be surfaced to the sender
func UserFacing(err error) bool {
	for _, e := range userErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
