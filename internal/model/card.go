package model

// CardKind is one of the three card types in play
type CardKind string

const (
	CardEmperor CardKind = "emperor"
	CardCitizen CardKind = "citizen"
	CardSlave   CardKind = "slave"
)

// Valid reports whether the kind is one of the three known cards
func (k CardKind) Valid() bool {
	return k == CardEmperor || k == CardCitizen || k == CardSlave
}

// Role is a player's allegiance: the emperor side or the slave side
type Role string

const (
	RoleEmperor Role = "emperor"
	RoleSlave   Role = "slave"
)

// Valid reports whether the role is one of the two known sides
func (r Role) Valid() bool {
	return r == RoleEmperor || r == RoleSlave
}

// Flip returns the opposite role
func (r Role) Flip() Role {
	if r == RoleEmperor {
		return RoleSlave
	}
	return RoleEmperor
}

// Hand maps each card kind to its remaining count for the current game
type Hand map[CardKind]int

// NewHand returns the starting hand for a role: each side gets its unique
// card plus four citizens
func NewHand(role Role) Hand {
	if role == RoleEmperor {
		return Hand{CardEmperor: 1, CardCitizen: 4}
	}
	return Hand{CardSlave: 1, CardCitizen: 4}
}

// Has reports whether at least one copy of the kind remains
func (h Hand) Has(kind CardKind) bool {
	return h[kind] > 0
}
