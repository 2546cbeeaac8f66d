package models

// Session represents one receipt-scanning session: who is splitting the
// bill, who paid, the total the user entered, and the line items.
// It is the immutable input to the settlement engine; the engine returns new
// derived data and never mutates a Session.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Title is the human-readable name for the session.
	// Auto-generated from participants when blank.
	Title string

	// Participants is the ordered roster of unique participant names.
	// Splitting requires at least two; a single-participant session is valid
	// but trivially produces no settlements.
	Participants []string

	// PayerID is the participant who fronted the bill. Must be a member of
	// Participants. Every settlement the engine produces is directed at the
	// payer.
	PayerID string

	// EnteredTotal is the bill total as entered (or OCR'd) by the user.
	// It is authoritative: settlements reconcile to it exactly, independent
	// of what the line items sum to.
	EnteredTotal Cents

	// Items are the receipt line items.
	Items []LineItem

	// CreatedBy is the account ID that created the session.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64
}

// LineItem represents a single line on the receipt.
type LineItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the display label (e.g. "Pizza", "House Red").
	Name string

	// Quantity is how many units the line covers. Display-only: Amount is
	// already the line total, so quantity is never multiplied back into the
	// split. Used to reconstruct unit context in derivation text.
	Quantity int

	// Amount is the line total as printed on the receipt (not unit price).
	Amount Cents

	// AssignedTo describes who shares this item.
	AssignedTo Assignment
}
