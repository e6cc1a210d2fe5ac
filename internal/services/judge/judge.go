// Package judge implements the card judgment rule: a three-way beat cycle
// where emperor beats citizen, citizen beats slave, and slave beats emperor.
package judge

import "github.com/ecardgame/ecard-server/internal/model"

// Outcome is the result of judging two simultaneously played cards
type Outcome int

const (
	Draw Outcome = iota
	FirstWins
	SecondWins
)

// Judge compares two cards played in the same turn. It is deterministic
// and knows nothing about match state.
func Judge(a, b model.CardKind) Outcome {
	if a == b {
		return Draw
	}

	switch {
	case a == model.CardEmperor && b == model.CardCitizen:
		return FirstWins
	case a == model.CardCitizen && b == model.CardSlave:
		return FirstWins
	case a == model.CardSlave && b == model.CardEmperor:
		return FirstWins
	case b == model.CardEmperor && a == model.CardCitizen:
		return SecondWins
	case b == model.CardCitizen && a == model.CardSlave:
		return SecondWins
	case b == model.CardSlave && a == model.CardEmperor:
		return SecondWins
	}

	// Unreachable while only three card kinds exist; kept so the function
	// stays total.
	return Draw
}
