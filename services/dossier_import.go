package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"visa_flow_app_go/models"
)

// ImportResult contains the summary of a spreadsheet import
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	SuccessCount   int      `json:"success_count"`
	FailedCount    int      `json:"failed_count"`
	Errors         []string `json:"errors"`

	Dossiers []models.Dossier `json:"-"`
}

// ParseDossierSheet reads the first sheet of an .xlsx workbook and turns
// each data row into a normalized dossier. The header row supplies the field
// names; historical column spellings are resolved by the normalizer's alias
// table, which is exactly why imports never rename columns themselves. A bad
// row is reported in the result and never aborts the batch.
func ParseDossierSheet(file io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("invalid excel format: no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read dossier sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("invalid excel format: missing header row")
	}

	headers := rows[0]
	result := &ImportResult{
		Errors: []string{},
	}

	for i, row := range rows {
		if i == 0 {
			continue
		} // Header
		if isBlankRow(row) {
			continue
		}

		result.TotalProcessed++

		raw := make(map[string]any, len(headers))
		for col, header := range headers {
			if strings.TrimSpace(header) == "" || col >= len(row) {
				continue
			}
			raw[header] = row[col]
		}

		dossier := NormalizeDossier(raw)
		if dossier.DossierNumber == "" && dossier.ClientName == "" {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: no dossier number or client name", i+1))
			continue
		}
		if dossier.DossierNumber != "" {
			if _, err := ParseDossierNumber(dossier.DossierNumber); err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: invalid dossier number %q", i+1, dossier.DossierNumber))
				continue
			}
		}

		result.SuccessCount++
		result.Dossiers = append(result.Dossiers, dossier)
	}

	return result, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// reportHeaders are the per-dossier columns of the consolidation report
var reportHeaders = []string{
	"Dossier", "Client", "Visa", "Base fee", "Other fees",
	"Collected", "Escrow state", "Escrow amount",
}

// WriteConsolidationReport renders a family's consolidated totals plus one
// row per member dossier to an .xlsx buffer.
func WriteConsolidationReport(totals ConsolidatedTotals, members []models.Dossier) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Consolidation"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Family %d", totals.ParentNumber))
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	summary := []struct {
		label string
		value any
	}{
		{"Cases", totals.CaseCount},
		{"Total billed", totals.TotalBilled},
		{"Total collected", totals.TotalCollected},
		{"Balance due", totals.BalanceDue},
		{"Escrow to be claimed", totals.EscrowToBeClaimed},
		{"Escrow claimed", totals.EscrowClaimed},
	}
	for i, line := range summary {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+3), line.label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+3), line.value)
	}

	headerRow := len(summary) + 4
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for col, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		f.SetCellValue(sheet, cell, header)
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(reportHeaders), headerRow)
	f.SetCellStyle(sheet, first, last, headerStyle)

	for i := range members {
		d := members[i]
		state, amount := DeriveEscrowState(d)
		values := []any{
			d.DossierNumber, d.ClientName, d.Visa, d.BaseFee, d.OtherFees,
			d.InstallmentTotal(), state, amount,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, headerRow+1+i)
			f.SetCellValue(sheet, cell, value)
		}
	}
	f.SetColWidth(sheet, "A", "H", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}
