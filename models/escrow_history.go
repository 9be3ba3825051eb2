package models

import "time"

// EscrowHistoryEntry is one append-only audit row recorded whenever the
// escrow engine detects a custody state transition. Never mutated or deleted
// by normal flow.
type EscrowHistoryEntry struct {
	ID            string    `json:"id"`
	DossierNumber string    `json:"dossier_number"`
	PreviousState string    `json:"previous_state"`
	NewState      string    `json:"new_state"`
	Amount        float64   `json:"amount"`
	RecordedAt    time.Time `json:"recorded_at"` // capture time, not a business date
	Cause         string    `json:"cause"`
}
