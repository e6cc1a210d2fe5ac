package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ecardgame/ecard-server/internal/model"
)

// renderEvent turns a server event into a single human-readable line.
// An empty result means the event carries nothing worth showing in text
// mode.
func renderEvent(ev ServerEvent) string {
	switch model.EventType(ev.Event) {
	case model.EventError:
		var msg string
		if err := json.Unmarshal(ev.Data, &msg); err != nil {
			return "server error"
		}
		return "server error: " + msg

	case model.EventWaiting:
		var p model.WaitingPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return ""
		}
		return fmt.Sprintf("Seated as the %s side. Waiting for an opponent...", p.BaseRole)

	case model.EventPlayerList:
		var p model.PlayerListPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return ""
		}
		names := make([]string, len(p.Players))
		for i, pl := range p.Players {
			names[i] = fmt.Sprintf("%s (%s)", pl.Name, pl.BaseRole)
		}
		return "Players: " + strings.Join(names, ", ")

	case model.EventJoined, model.EventNewGame:
		var p model.GameStartPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return ""
		}
		return fmt.Sprintf("--- Game %d of %d --- you play the %s side. Hand: %s",
			p.GameNo, p.TotalGames, p.Role, formatHand(p.Deck))

	case model.EventGameCounter:
		// The per-player game start line already covers this
		return ""

	case model.EventScoreUpdate:
		var p model.ScoreUpdatePayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return ""
		}
		return "Score: " + formatScores(p.Scores)

	case model.EventUpdateDeck:
		var hand model.Hand
		if err := json.Unmarshal(ev.Data, &hand); err != nil {
			return ""
		}
		return "Hand: " + formatHand(hand)

	case model.EventNoDecision:
		var p model.NoDecisionPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return ""
		}
		return fmt.Sprintf("No decision: %s vs %s. Next turn.", p.YourCard, p.OppCard)

	case model.EventRoundResult:
		var p model.RoundResultPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return ""
		}
		if p.YourCard == nil || p.OppCard == nil {
			return "Game drawn: the turn limit was reached."
		}
		verdict := map[string]string{
			model.ResultWin:  "You win the game!",
			model.ResultLose: "You lose the game.",
			model.ResultDraw: "The game is a draw.",
		}[p.Result]
		return fmt.Sprintf("%s vs %s. %s", *p.YourCard, *p.OppCard, verdict)

	case model.EventHistory:
		var entries []model.HistoryEntry
		if err := json.Unmarshal(ev.Data, &entries); err != nil || len(entries) == 0 {
			return ""
		}
		last := entries[len(entries)-1]
		return fmt.Sprintf("Game %d goes to %s (%s side, %d pt)",
			last.GameNo, last.WinnerName, last.WinnerRole, last.Point)

	case model.EventMatchOver:
		var p model.MatchOverPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return ""
		}
		if p.WinnerName == nil {
			return fmt.Sprintf("Match over after %d games. %s. It is a tie!",
				p.TotalGames, formatScores(p.Scores))
		}
		return fmt.Sprintf("Match over after %d games. %s. %s wins!",
			p.TotalGames, formatScores(p.Scores), *p.WinnerName)

	case model.EventOpponentLeft:
		return "Your opponent left. The room has been closed."

	default:
		return fmt.Sprintf("%s: %s", ev.Event, string(ev.Data))
	}
}

func formatHand(hand model.Hand) string {
	var parts []string
	// Stable display order
	for _, kind := range []model.CardKind{model.CardEmperor, model.CardSlave, model.CardCitizen} {
		if n, ok := hand[kind]; ok && n > 0 {
			parts = append(parts, fmt.Sprintf("%s x%d", kind, n))
		}
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ", ")
}

func formatScores(scores []model.ScoreEntry) string {
	parts := make([]string, len(scores))
	for i, entry := range scores {
		parts[i] = fmt.Sprintf("%s %d", entry.Name, entry.Wins)
	}
	return strings.Join(parts, " - ")
}
