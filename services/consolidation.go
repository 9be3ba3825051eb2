package services

import (
	"visa_flow_app_go/models"
)

// ConsolidatedTotals aggregates a parent dossier and all of its children
// into combined financial figures.
type ConsolidatedTotals struct {
	ParentNumber      int      `json:"parent_number"`
	DossierNumbers    []string `json:"dossier_numbers"`
	CaseCount         int      `json:"case_count"`
	BaseFees          float64  `json:"base_fees"`
	OtherFees         float64  `json:"other_fees"`
	TotalBilled       float64  `json:"total_billed"`
	TotalCollected    float64  `json:"total_collected"`
	BalanceDue        float64  `json:"balance_due"`
	EscrowToBeClaimed float64  `json:"escrow_to_be_claimed"`
	EscrowClaimed     float64  `json:"escrow_claimed"`
}

// Consolidate computes family totals for the dossier identified by parentID.
// Family membership is parsed-parent equality via the identifier service,
// never string prefixes ("129" must not capture "1293"). An unknown or
// unparsable parent yields zero totals with count zero, not an error.
func Consolidate(parentID string, all []models.Dossier) ConsolidatedTotals {
	parts, err := ParseDossierNumber(parentID)
	if err != nil {
		return ConsolidatedTotals{DossierNumbers: []string{}}
	}

	totals := ConsolidatedTotals{
		ParentNumber:   parts.Parent,
		DossierNumbers: []string{},
	}

	for i := range all {
		d := all[i]
		memberParts, err := ParseDossierNumber(d.DossierNumber)
		if err != nil || memberParts.Parent != parts.Parent {
			continue
		}

		totals.CaseCount++
		totals.DossierNumbers = append(totals.DossierNumbers, d.DossierNumber)
		totals.BaseFees += d.BaseFee
		totals.OtherFees += d.OtherFees
		totals.TotalCollected += d.InstallmentTotal()

		state, amount := DeriveEscrowState(d)
		switch state {
		case models.EscrowStateToBeClaimed:
			totals.EscrowToBeClaimed += amount
		case models.EscrowStateClaimed:
			totals.EscrowClaimed += amount
		}
	}

	totals.DossierNumbers = SortDossierNumbers(totals.DossierNumbers)
	totals.TotalBilled = totals.BaseFees + totals.OtherFees
	totals.BalanceDue = totals.TotalBilled - totals.TotalCollected
	return totals
}
