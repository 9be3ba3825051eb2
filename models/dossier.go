package models

// Escrow custody states
const (
	EscrowStateNone        = "NONE"
	EscrowStateActive      = "ACTIVE"
	EscrowStateToBeClaimed = "TO_BE_CLAIMED"
	EscrowStateClaimed     = "CLAIMED"
)

// InstallmentCount is the fixed number of partial payments a dossier can carry
const InstallmentCount = 4

// Dossier represents one client case (or sub-case). All date fields hold
// either an ISO YYYY-MM-DD string or "" for unset; money fields are
// non-negative. Instances must only be produced by the field normalizer so
// that every field is guaranteed typed and present.
type Dossier struct {
	DossierNumber string `json:"dossier_number"` // <parent> or <parent>-<suffix>
	ClientName    string `json:"client_name"`

	// Classification (soft reference to the visa reference table)
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Visa        string `json:"visa"`

	CreatedDate string `json:"created_date"`

	// Status flags and their dates
	Sent          bool   `json:"sent"`
	SentDate      string `json:"sent_date"`
	Accepted      bool   `json:"accepted"`
	AcceptedDate  string `json:"accepted_date"`
	Refused       bool   `json:"refused"`
	RefusedDate   string `json:"refused_date"`
	Cancelled     bool   `json:"cancelled"`
	CancelledDate string `json:"cancelled_date"`
	RFE           bool   `json:"rfe"`
	RFEDate       string `json:"rfe_date"`

	// Money
	BaseFee      float64 `json:"base_fee"`
	OtherFees    float64 `json:"other_fees"`
	Installment1 float64 `json:"installment_1"`
	PaymentDate1 string  `json:"payment_date_1"`
	PaymentMode1 string  `json:"payment_mode_1"`
	Installment2 float64 `json:"installment_2"`
	PaymentDate2 string  `json:"payment_date_2"`
	PaymentMode2 string  `json:"payment_mode_2"`
	Installment3 float64 `json:"installment_3"`
	PaymentDate3 string  `json:"payment_date_3"`
	PaymentMode3 string  `json:"payment_mode_3"`
	Installment4 float64 `json:"installment_4"`
	PaymentDate4 string  `json:"payment_date_4"`
	PaymentMode4 string  `json:"payment_mode_4"`

	// Escrow flags. At most one true at a time by convention; the escrow
	// engine recomputes from status+flags rather than trusting this.
	EscrowActive      bool   `json:"escrow_active"`
	EscrowToBeClaimed bool   `json:"escrow_to_be_claimed"`
	EscrowClaimed     bool   `json:"escrow_claimed"`
	ClaimDate         string `json:"claim_date"`

	Comment string `json:"comment"`
}

// Installments returns the four installment amounts in order.
func (d *Dossier) Installments() [InstallmentCount]float64 {
	return [InstallmentCount]float64{d.Installment1, d.Installment2, d.Installment3, d.Installment4}
}

// PaymentDates returns the four installment payment dates in order.
func (d *Dossier) PaymentDates() [InstallmentCount]string {
	return [InstallmentCount]string{d.PaymentDate1, d.PaymentDate2, d.PaymentDate3, d.PaymentDate4}
}

// PaymentModes returns the four installment payment modes in order.
func (d *Dossier) PaymentModes() [InstallmentCount]string {
	return [InstallmentCount]string{d.PaymentMode1, d.PaymentMode2, d.PaymentMode3, d.PaymentMode4}
}

// InstallmentTotal returns the sum of all installment amounts.
func (d *Dossier) InstallmentTotal() float64 {
	total := 0.0
	for _, amount := range d.Installments() {
		total += amount
	}
	return total
}

// TotalBilled returns base fee plus other fees.
func (d *Dossier) TotalBilled() float64 {
	return d.BaseFee + d.OtherFees
}

// IsResolved reports whether the dossier reached a terminal status.
// Accepted/refused/cancelled are treated as terminal and mutually exclusive
// by the business logic even though storage does not enforce exclusivity.
func (d *Dossier) IsResolved() bool {
	return d.Accepted || d.Refused || d.Cancelled
}

// IsValidEscrowState checks if the state string is one of the known states.
func IsValidEscrowState(state string) bool {
	switch state {
	case EscrowStateNone, EscrowStateActive, EscrowStateToBeClaimed, EscrowStateClaimed:
		return true
	}
	return false
}
