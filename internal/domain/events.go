package domain

import "time"

// Event types
const (
	EventTypeBalanceChanged  = "party.balance_changed"
	EventTypePartyReconciled = "party.reconciled"
)

// Aggregate types
const (
	AggregateTypeParty = "party"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// BalanceChangedEvent payload
type BalanceChangedEvent struct {
	PartyID    string `json:"party_id"`
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	PaymentNo  string `json:"payment_no,omitempty"`
	OldBalance string `json:"old_balance"`
	NewBalance string `json:"new_balance"`
}

// PartyReconciledEvent payload
type PartyReconciledEvent struct {
	PartyID    string `json:"party_id"`
	OldBalance string `json:"old_balance"`
	NewBalance string `json:"new_balance"`
	Difference string `json:"difference"`
}
