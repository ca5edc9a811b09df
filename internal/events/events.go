// Package events defines the change notifications the ledger service emits
// after every successful write, and the publishers that carry them.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Type names what changed.
type Type string

const (
	MemberAdded      Type = "member.added"
	MemberRemoved    Type = "member.removed"
	PayoutKeyChanged Type = "member.payout_key_changed"
	ExpenseAdded     Type = "expense.added"
	ExpenseRemoved   Type = "expense.removed"
	PaymentAdded     Type = "payment.added"
	PaymentRemoved   Type = "payment.removed"
	LedgerImported   Type = "ledger.imported"
	LedgerCleared    Type = "ledger.cleared"
	LedgerSynced     Type = "ledger.synced"
)

// Event is a lightweight notification. Consumers that need the data load the
// snapshot at Revision from storage.
type Event struct {
	Type       Type      `json:"type"`
	LedgerKey  string    `json:"ledgerKey"`
	Revision   uint64    `json:"revision"`
	EntityID   string    `json:"entityId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event.
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Publisher delivers events to interested parties. Publish failures never roll
// back the write that caused them.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

// Publish drops e.
func (Nop) Publish(context.Context, Event) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }

// Recorder keeps published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish records e.
func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Close is a no-op.
func (r *Recorder) Close() error { return nil }
