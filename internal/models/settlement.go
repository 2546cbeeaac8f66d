package models

// Settlement represents a directed payment obligation computed for a session:
// FromID owes ToID the given amount. In the single-payer design ToID is
// always the session's payer.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// SessionID is the session this settlement was computed for.
	SessionID string

	// FromID is the participant who owes (debtor).
	FromID string

	// ToID is the participant who is owed (the payer).
	ToID string

	// Amount is the payment amount in cents, always positive.
	Amount Cents

	// Explanation is the line-by-line derivation of how Amount was computed.
	// Purely descriptive; never used in further computation.
	Explanation string

	// CreatedAt is the Unix timestamp when the settlement was stored.
	CreatedAt int64
}
