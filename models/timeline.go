package models

// Timeline event types
const (
	TimelineEventCreated           = "dossier_created"
	TimelineEventPayment           = "payment"
	TimelineEventStatus            = "status"
	TimelineEventEscrowActive      = "escrow_active"
	TimelineEventEscrowToBeClaimed = "escrow_to_be_claimed"
	TimelineEventEscrowClaimed     = "escrow_claimed"
)

// TimelineEvent is one dated entry of a dossier's financial/status history.
// Events without a concrete date are never built.
type TimelineEvent struct {
	Date   string  `json:"date"` // YYYY-MM-DD, always set
	Type   string  `json:"type"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount,omitempty"`
	Note   string  `json:"note,omitempty"`
}
