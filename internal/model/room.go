package model

import "time"

// RoomID identifies a room; chosen by the first player to join
type RoomID string

// PlayerID uniquely identifies a player connection
type PlayerID string

// Phase represents the current phase of a room's match
type Phase string

const (
	PhaseWaiting    Phase = "waiting"     // One seat filled, waiting for an opponent
	PhaseInProgress Phase = "in_progress" // Match running through its 12 games
	PhaseFinished   Phase = "finished"    // All 12 games resolved
)

const (
	// TotalGames is the number of games in a match
	TotalGames = 12
	// GamesPerSegment is the number of games between role flips
	GamesPerSegment = 3
	// MaxTurnsPerGame caps the turns of a single game; reaching it forces
	// a scoreless draw
	MaxTurnsPerGame = 5
)

// Player represents a seated participant in a room
type Player struct {
	ID       PlayerID
	Name     string
	BaseRole Role // Role taken at join time, fixed for the whole match
	Role     Role // Effective role for the current game
	Hand     Hand
}

// HistoryEntry records one decisive game
type HistoryEntry struct {
	GameNo     int    `json:"gameNo"`
	WinnerName string `json:"winnerName"`
	WinnerRole Role   `json:"winnerRole"`
	Point      int    `json:"point"`
}

// Room is the full state of one match between two players
type Room struct {
	ID       RoomID
	Password string // Opaque secret, compared for equality only
	Players  []*Player

	Phase       Phase
	GameIndex   int  // 0-based, [0, TotalGames)
	TurnIndex   int  // Turn within the active game, [0, MaxTurnsPerGame)
	GameDecided bool // Active game has resolved; cleared when the next starts

	PendingRound map[PlayerID]CardKind // At most one move per player per turn
	Score        map[PlayerID]int
	History      []HistoryEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRoom creates an empty room seeded with the given password
func NewRoom(id RoomID, password string, now time.Time) *Room {
	return &Room{
		ID:           id,
		Password:     password,
		Phase:        PhaseWaiting,
		PendingRound: make(map[PlayerID]CardKind),
		Score:        make(map[PlayerID]int),
		History:      []HistoryEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// GetPlayer returns the seated player with the given ID, or nil
func (r *Room) GetPlayer(id PlayerID) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// IsFull reports whether both seats are taken
func (r *Room) IsFull() bool {
	return len(r.Players) >= 2
}

// HasBaseRole reports whether a seated player already holds the given base role
func (r *Room) HasBaseRole(role Role) bool {
	for _, p := range r.Players {
		if p.BaseRole == role {
			return true
		}
	}
	return false
}

// Segment returns the 3-game block index of the current game, in [0, 4)
func (r *Room) Segment() int {
	return r.GameIndex / GamesPerSegment
}

// Roster returns the public view of the seated players in join order
func (r *Room) Roster() []PlayerInfo {
	roster := make([]PlayerInfo, len(r.Players))
	for i, p := range r.Players {
		roster[i] = PlayerInfo{Name: p.Name, BaseRole: p.BaseRole}
	}
	return roster
}

// RoleForSegment returns the effective role for a game: the base role in
// even segments, the flipped role in odd ones
func RoleForSegment(base Role, segment int) Role {
	if segment%2 == 0 {
		return base
	}
	return base.Flip()
}
