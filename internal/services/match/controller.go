// Package match implements the match/round orchestration state machine:
// the 12-game arc, simultaneous-move collection, turn resolution, role
// flipping every 3 games, asymmetric scoring and match completion.
package match

import (
	"context"
	"log/slog"

	"github.com/ecardgame/ecard-server/internal/dependencies/clock"
	"github.com/ecardgame/ecard-server/internal/model"
	"github.com/ecardgame/ecard-server/internal/services/judge"
	"github.com/ecardgame/ecard-server/internal/storage"
)

// Controller manages match state transitions. Every transition returns
// the ordered list of outbound events it produced, so the whole state
// machine is testable without a live transport.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new match Controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// StartMatch resets the match counters and begins game 1. Called by the
// registry the instant the second seat fills; the caller persists the room.
func (c *Controller) StartMatch(room *model.Room) []model.Event {
	room.Phase = model.PhaseInProgress
	room.GameIndex = 0
	for _, p := range room.Players {
		room.Score[p.ID] = 0
	}

	c.logger.Info("match started",
		slog.String("room_id", string(room.ID)),
		slog.Int("total_games", model.TotalGames),
	)

	return c.startGame(room)
}

// PlayCard handles one player's move for the current turn. The move is
// validated against the active game; on acceptance the hand is decremented
// and, once both players have moved, the turn is resolved.
func (c *Controller) PlayCard(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, card model.CardKind) ([]model.Event, error) {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !card.Valid() {
		return nil, model.ErrInvalidCard
	}
	switch room.Phase {
	case model.PhaseWaiting:
		return nil, model.ErrNoOpponent
	case model.PhaseFinished:
		return nil, model.ErrMatchFinished
	}
	if room.GameDecided {
		return nil, model.ErrGameDecided
	}

	player := room.GetPlayer(playerID)
	if player == nil {
		return nil, model.ErrPlayerNotInRoom
	}
	if !player.Hand.Has(card) {
		return nil, model.ErrCardExhausted
	}

	player.Hand[card]--
	room.PendingRound[playerID] = card

	events := []model.Event{
		model.PlayerEvent(model.EventUpdateDeck, room.ID, playerID, player.Hand),
	}

	// Resolution needs both seats filled; a lone pending move waits
	if len(room.PendingRound) == 2 && len(room.Players) == 2 {
		events = append(events, c.resolveTurn(room)...)
	}

	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		c.logger.Error("failed to save room",
			slog.String("room_id", string(room.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return events, nil
}

// resolveTurn fires once both players have moved. A citizen-vs-citizen
// turn passes through unless it hits the turn cap; anything else is
// decisive and ends the game.
func (c *Controller) resolveTurn(room *model.Room) []model.Event {
	p1, p2 := room.Players[0], room.Players[1]
	c1, c2 := room.PendingRound[p1.ID], room.PendingRound[p2.ID]
	room.PendingRound = make(map[model.PlayerID]model.CardKind)

	if c1 == model.CardCitizen && c2 == model.CardCitizen {
		events := []model.Event{
			model.PlayerEvent(model.EventNoDecision, room.ID, p1.ID, model.NoDecisionPayload{YourCard: c1, OppCard: c2}),
			model.PlayerEvent(model.EventNoDecision, room.ID, p2.ID, model.NoDecisionPayload{YourCard: c2, OppCard: c1}),
		}

		room.TurnIndex++
		if room.TurnIndex >= model.MaxTurnsPerGame {
			// Safety valve: force a scoreless draw
			room.GameDecided = true
			events = append(events, model.RoomEvent(model.EventRoundResult, room.ID, model.RoundResultPayload{
				Result: model.ResultDraw,
			}))
			c.logger.Info("game drawn at turn cap",
				slog.String("room_id", string(room.ID)),
				slog.Int("game_no", room.GameIndex+1),
			)
			events = append(events, c.completeGame(room)...)
		}
		return events
	}

	outcome := judge.Judge(c1, c2)
	room.GameDecided = true

	events := resultEvents(room, p1, p2, c1, c2, outcome)

	if outcome != judge.Draw {
		winner := p1
		if outcome == judge.SecondWins {
			winner = p2
		}

		// Asymmetric payoff: the slave card is rare and hard to win with
		point := 1
		if winner.Role == model.RoleSlave {
			point = 5
		}
		room.Score[winner.ID] += point

		room.History = append(room.History, model.HistoryEntry{
			GameNo:     room.GameIndex + 1,
			WinnerName: winner.Name,
			WinnerRole: winner.Role,
			Point:      point,
		})
		events = append(events, model.RoomEvent(model.EventHistory, room.ID, room.History))

		c.logger.Info("game decided",
			slog.String("room_id", string(room.ID)),
			slog.Int("game_no", room.GameIndex+1),
			slog.String("winner", winner.Name),
			slog.String("winner_role", string(winner.Role)),
			slog.Int("point", point),
		)
	}

	return append(events, c.completeGame(room)...)
}

// completeGame broadcasts the score table, then either starts the next
// game or finishes the match after the 12th.
func (c *Controller) completeGame(room *model.Room) []model.Event {
	events := []model.Event{
		model.RoomEvent(model.EventScoreUpdate, room.ID, scorePayload(room)),
	}

	room.GameIndex++
	if room.GameIndex < model.TotalGames {
		return append(events, c.startGame(room)...)
	}

	room.Phase = model.PhaseFinished

	pA, pB := room.Players[0], room.Players[1]
	scoreA, scoreB := room.Score[pA.ID], room.Score[pB.ID]

	var winnerName *string
	if scoreA > scoreB {
		winnerName = &pA.Name
	} else if scoreB > scoreA {
		winnerName = &pB.Name
	}

	c.logger.Info("match finished",
		slog.String("room_id", string(room.ID)),
		slog.Int("score_a", scoreA),
		slog.Int("score_b", scoreB),
	)

	return append(events, model.RoomEvent(model.EventMatchOver, room.ID, model.MatchOverPayload{
		TotalGames: model.TotalGames,
		Scores: []model.ScoreEntry{
			{Name: pA.Name, Wins: scoreA},
			{Name: pB.Name, Wins: scoreB},
		},
		WinnerName: winnerName,
	}))
}

// startGame prepares the game at the current index: effective roles by
// segment, fresh hands, turn and pending-round reset.
func (c *Controller) startGame(room *model.Room) []model.Event {
	room.GameDecided = false
	room.TurnIndex = 0
	room.PendingRound = make(map[model.PlayerID]model.CardKind)

	segment := room.Segment()
	roster := room.Roster()

	// "joined" for the first game only, "new_game" for the rest
	eventType := model.EventNewGame
	if room.GameIndex == 0 {
		eventType = model.EventJoined
	}

	var events []model.Event
	for _, p := range room.Players {
		p.Role = model.RoleForSegment(p.BaseRole, segment)
		p.Hand = model.NewHand(p.Role)

		events = append(events, model.PlayerEvent(eventType, room.ID, p.ID, model.GameStartPayload{
			RoomID:     room.ID,
			GameNo:     room.GameIndex + 1,
			TotalGames: model.TotalGames,
			Role:       p.Role,
			Deck:       p.Hand,
			Players:    roster,
		}))
	}

	events = append(events, model.RoomEvent(model.EventGameCounter, room.ID, model.GameCounterPayload{
		GameNo:     room.GameIndex + 1,
		TotalGames: model.TotalGames,
	}))
	return append(events, model.RoomEvent(model.EventScoreUpdate, room.ID, scorePayload(room)))
}

// resultEvents reports a decisive turn to each player relative to their
// own card.
func resultEvents(room *model.Room, p1, p2 *model.Player, c1, c2 model.CardKind, outcome judge.Outcome) []model.Event {
	r1, r2 := model.ResultDraw, model.ResultDraw
	switch outcome {
	case judge.FirstWins:
		r1, r2 = model.ResultWin, model.ResultLose
	case judge.SecondWins:
		r1, r2 = model.ResultLose, model.ResultWin
	}

	return []model.Event{
		model.PlayerEvent(model.EventRoundResult, room.ID, p1.ID, model.RoundResultPayload{
			Result: r1, YourCard: &c1, OppCard: &c2,
		}),
		model.PlayerEvent(model.EventRoundResult, room.ID, p2.ID, model.RoundResultPayload{
			Result: r2, YourCard: &c2, OppCard: &c1,
		}),
	}
}

func scorePayload(room *model.Room) model.ScoreUpdatePayload {
	scores := make([]model.ScoreEntry, len(room.Players))
	for i, p := range room.Players {
		scores[i] = model.ScoreEntry{Name: p.Name, Wins: room.Score[p.ID]}
	}
	return model.ScoreUpdatePayload{Scores: scores}
}
