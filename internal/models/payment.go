package models

import "time"

// Payment represents a direct transfer between two members to clear debts.
// It is independent of any expense.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// FromID is the member who paid (debtor settling up).
	FromID string `json:"fromId"`

	// ToID is the member who received the money. Never equal to FromID.
	ToID string `json:"toId"`

	// Amount is the payment amount, always positive.
	Amount float64 `json:"amount"`

	// Description is an optional free-text note.
	Description string `json:"description"`

	// CreatedAt is when the payment was recorded.
	CreatedAt time.Time `json:"date"`
}
