package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// JSON is a type alias for JSON data
type JSON map[string]any

// ReconciliationAudit is an append-only record written whenever reconciliation
// corrects a party's cached balance. It is never updated or deleted.
type ReconciliationAudit struct {
	ID         string
	PartyID    string
	OldBalance decimal.Decimal
	NewBalance decimal.Decimal
	Difference decimal.Decimal
	Metadata   JSON
	CreatedAt  time.Time
}

// MarshalState converts a domain object to JSON for audit metadata
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
