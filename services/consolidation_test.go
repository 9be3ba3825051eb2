package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"visa_flow_app_go/models"
)

func TestConsolidateFamilyTotals(t *testing.T) {
	all := []models.Dossier{
		{DossierNumber: "12937", BaseFee: 1000},
		{DossierNumber: "12937-1", BaseFee: 500},
		{DossierNumber: "12938", BaseFee: 9999},
	}

	totals := Consolidate("12937", all)
	assert.Equal(t, 2, totals.CaseCount)
	assert.Equal(t, []string{"12937", "12937-1"}, totals.DossierNumbers)
	assert.Equal(t, 1500.0, totals.TotalBilled)
	assert.Equal(t, 0.0, totals.TotalCollected)
	assert.Equal(t, 1500.0, totals.BalanceDue)
}

func TestConsolidateCollectedAndBalance(t *testing.T) {
	all := []models.Dossier{
		{DossierNumber: "12937", BaseFee: 1000, OtherFees: 200, Installment1: 400, Installment2: 100},
		{DossierNumber: "12937-2", BaseFee: 300, Installment1: 300},
	}

	totals := Consolidate("12937", all)
	assert.Equal(t, 1300.0, totals.BaseFees)
	assert.Equal(t, 200.0, totals.OtherFees)
	assert.Equal(t, 1500.0, totals.TotalBilled)
	assert.Equal(t, 800.0, totals.TotalCollected)
	assert.Equal(t, 700.0, totals.BalanceDue)
}

func TestConsolidateEscrowBuckets(t *testing.T) {
	all := []models.Dossier{
		{DossierNumber: "12937", EscrowToBeClaimed: true, Installment1: 500},
		{DossierNumber: "12937-1", EscrowClaimed: true, Installment1: 250},
		{DossierNumber: "12937-2", EscrowActive: true, Installment1: 100},
		// Resolved: holds nothing despite the flag.
		{DossierNumber: "12937-3", Accepted: true, EscrowToBeClaimed: true, Installment1: 900},
	}

	totals := Consolidate("12937", all)
	assert.Equal(t, 500.0, totals.EscrowToBeClaimed)
	assert.Equal(t, 250.0, totals.EscrowClaimed)
}

func TestConsolidateNoPrefixMatching(t *testing.T) {
	all := []models.Dossier{
		{DossierNumber: "129", BaseFee: 100},
		{DossierNumber: "1293", BaseFee: 200},
		{DossierNumber: "129-1", BaseFee: 50},
	}

	totals := Consolidate("129", all)
	assert.Equal(t, 2, totals.CaseCount)
	assert.Equal(t, 150.0, totals.TotalBilled)
}

func TestConsolidateEmptyFamily(t *testing.T) {
	t.Run("Unknown parent", func(t *testing.T) {
		totals := Consolidate("99999", []models.Dossier{{DossierNumber: "12937"}})
		assert.Equal(t, 0, totals.CaseCount)
		assert.Equal(t, 0.0, totals.TotalBilled)
		assert.Equal(t, 0.0, totals.BalanceDue)
	})

	t.Run("Unparsable parent", func(t *testing.T) {
		totals := Consolidate("garbage", []models.Dossier{{DossierNumber: "12937"}})
		assert.Equal(t, 0, totals.CaseCount)
		assert.Empty(t, totals.DossierNumbers)
	})
}

func TestConsolidateChildAsEntryPoint(t *testing.T) {
	// Consolidating from a child id covers the same family.
	all := []models.Dossier{
		{DossierNumber: "12937", BaseFee: 1000},
		{DossierNumber: "12937-1", BaseFee: 500},
	}
	totals := Consolidate("12937-1", all)
	assert.Equal(t, 2, totals.CaseCount)
	assert.Equal(t, 1500.0, totals.TotalBilled)
}
