package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/v1/parties/01HXYZ", "/api/v1/parties/:id"},
		{"/api/v1/parties/01HXYZ/ledger", "/api/v1/parties/:id/ledger"},
		{"/api/v1/parties/01HXYZ/transactions", "/api/v1/parties/:id/transactions"},
		{"/api/v1/transactions/01HABC", "/api/v1/transactions/:id"},
		{"/api/v1/direct-transactions/01HDEF", "/api/v1/direct-transactions/:id"},
		{"/api/v1/vendor-payments/01HGHI", "/api/v1/vendor-payments/:id"},
		{"/api/v1/parties", "/api/v1/parties"},
		{"/api/v1/parties/", "/api/v1/parties/"},
		{"/health", "/health"},
		{"/api/v1/reconciliation/report", "/api/v1/reconciliation/report"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.expected {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
