package models

// Bookkeeping entry kinds
const (
	BookkeepingKindInflow  = "inflow"
	BookkeepingKindOutflow = "outflow"
)

// BookkeepingEntry is one ledger row, independent of the dossier lifecycle.
// The ID is a surrogate uuid assigned on append; the external API stays
// index-keyed.
type BookkeepingEntry struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`           // YYYY-MM-DD or ""
	Kind          string  `json:"kind"`           // inflow | outflow
	DossierNumber string  `json:"dossier_number"` // free text, may be empty
	ClientName    string  `json:"client_name"`
	Amount        float64 `json:"amount"`
	PaymentMode   string  `json:"payment_mode"`
	Category      string  `json:"category"`
	Comment       string  `json:"comment"`
}

// IsValidBookkeepingKind checks if the kind is inflow or outflow.
func IsValidBookkeepingKind(kind string) bool {
	return kind == BookkeepingKindInflow || kind == BookkeepingKindOutflow
}
