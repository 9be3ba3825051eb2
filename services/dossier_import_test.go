package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"visa_flow_app_go/models"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseDossierSheet(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Numéro dossier", "Nom client", "Type visa", "Envoyé", "Honoraires", "Acompte 1", "Date acompte 1"},
		{"12937", "Dupont", "L-1", "oui", "2500,00", "1000", "10/01/2024"},
		{"12937-1", "Dupont", "L-2", "non", "500", "", ""},
	})

	result, err := ParseDossierSheet(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailedCount)
	require.Len(t, result.Dossiers, 2)

	first := result.Dossiers[0]
	assert.Equal(t, "12937", first.DossierNumber)
	assert.Equal(t, "Dupont", first.ClientName)
	assert.Equal(t, "L-1", first.Visa)
	assert.True(t, first.Sent)
	assert.Equal(t, 2500.0, first.BaseFee)
	assert.Equal(t, 1000.0, first.Installment1)
	assert.Equal(t, "2024-01-10", first.PaymentDate1)

	second := result.Dossiers[1]
	assert.Equal(t, "12937-1", second.DossierNumber)
	assert.False(t, second.Sent)
	assert.Equal(t, 0.0, second.Installment1)
}

func TestParseDossierSheetBadRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Numéro dossier", "Nom client"},
		{"12937", "Dupont"},
		{"", ""}, // blank: skipped entirely
		{"not-a-number", "Martin"},
	})

	result, err := ParseDossierSheet(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not-a-number")
}

func TestParseDossierSheetRowWithoutNumber(t *testing.T) {
	// A row with a client but no number is importable; the façade assigns
	// the next parent number on append.
	buf := buildWorkbook(t, [][]any{
		{"Numéro dossier", "Nom client"},
		{"", "Durand"},
	})

	result, err := ParseDossierSheet(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Dossiers, 1)
	assert.Equal(t, "", result.Dossiers[0].DossierNumber)
	assert.Equal(t, "Durand", result.Dossiers[0].ClientName)
}

func TestWriteConsolidationReport(t *testing.T) {
	members := []models.Dossier{
		{DossierNumber: "12937", ClientName: "Dupont", BaseFee: 1000, EscrowActive: true, Installment1: 400},
		{DossierNumber: "12937-1", ClientName: "Dupont", BaseFee: 500},
	}
	totals := Consolidate("12937", members)

	buf, err := WriteConsolidationReport(totals, members)
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Consolidation", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Family 12937", title)

	rows, err := f.GetRows("Consolidation")
	require.NoError(t, err)
	var flat []string
	for _, row := range rows {
		flat = append(flat, row...)
	}
	assert.Contains(t, flat, "12937-1")
	assert.Contains(t, flat, "Total billed")
}
