package model

// EventType identifies an outbound event
type EventType string

const (
	EventError        EventType = "error_msg"
	EventWaiting      EventType = "waiting"
	EventPlayerList   EventType = "player_list"
	EventJoined       EventType = "joined"
	EventNewGame      EventType = "new_game"
	EventGameCounter  EventType = "game_counter"
	EventScoreUpdate  EventType = "score_update"
	EventUpdateDeck   EventType = "update_deck"
	EventNoDecision   EventType = "no_decision"
	EventRoundResult  EventType = "round_result"
	EventHistory      EventType = "history_update"
	EventMatchOver    EventType = "match_over"
	EventOpponentLeft EventType = "opponent_left"
)

// Round result values relative to the receiving player
const (
	ResultWin  = "win"
	ResultLose = "lose"
	ResultDraw = "draw"
)

// Event is a single outbound notification produced by a state transition.
// Controllers return events in delivery order; the transport routes them
// either to one player or to the whole room.
type Event struct {
	Type    EventType
	Room    RoomID
	To      PlayerID // Empty means broadcast to the whole room
	Payload any
}

// PlayerEvent builds an event addressed to a single player
func PlayerEvent(t EventType, room RoomID, to PlayerID, payload any) Event {
	return Event{Type: t, Room: room, To: to, Payload: payload}
}

// RoomEvent builds an event broadcast to every player in the room
func RoomEvent(t EventType, room RoomID, payload any) Event {
	return Event{Type: t, Room: room, Payload: payload}
}

// PlayerInfo is the public roster entry for one player
type PlayerInfo struct {
	Name     string `json:"name"`
	BaseRole Role   `json:"baseRole"`
}

// WaitingPayload is sent to a room's sole occupant
type WaitingPayload struct {
	Message  string `json:"message"`
	BaseRole Role   `json:"baseRole"`
}

// PlayerListPayload carries the updated roster after a join
type PlayerListPayload struct {
	Players []PlayerInfo `json:"players"`
}

// GameStartPayload is sent per player as "joined" for the first game and
// "new_game" for every later one
type GameStartPayload struct {
	RoomID     RoomID       `json:"roomId"`
	GameNo     int          `json:"gameNo"`
	TotalGames int          `json:"totalGames"`
	Role       Role         `json:"role"`
	Deck       Hand         `json:"deck"`
	Players    []PlayerInfo `json:"players"`
}

// GameCounterPayload announces which game of the match is starting
type GameCounterPayload struct {
	GameNo     int `json:"gameNo"`
	TotalGames int `json:"totalGames"`
}

// ScoreEntry is one row of the score table
type ScoreEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// ScoreUpdatePayload carries the cumulative score table in join order
type ScoreUpdatePayload struct {
	Scores []ScoreEntry `json:"scores"`
}

// NoDecisionPayload reports a pass-through turn to one player
type NoDecisionPayload struct {
	YourCard CardKind `json:"yourCard"`
	OppCard  CardKind `json:"oppCard"`
}

// RoundResultPayload reports a decisive turn relative to the receiving
// player. Cards are null for the forced draw at the turn cap.
type RoundResultPayload struct {
	Result   string    `json:"result"`
	YourCard *CardKind `json:"yourCard"`
	OppCard  *CardKind `json:"oppCard"`
}

// MatchOverPayload reports the final result after the 12th game.
// WinnerName is null when both totals are equal.
type MatchOverPayload struct {
	TotalGames int          `json:"totalGames"`
	Scores     []ScoreEntry `json:"scores"`
	WinnerName *string      `json:"winnerName"`
}
