package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"visa_flow_app_go/models"
	"visa_flow_app_go/services"
)

// ImportDossiers accepts an .xlsx upload of dossier rows, runs each row
// through the normalizer and appends the batch to the document.
func (h *Handler) ImportDossiers(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to open uploaded file")
	}
	defer file.Close()

	result, err := services.ParseDossierSheet(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	added, importErrors, err := h.DB.ImportDossiers(c.Request().Context(), result.Dossiers)
	if err != nil {
		return httpError(err)
	}

	result.Errors = append(result.Errors, importErrors...)
	result.FailedCount += len(importErrors)
	result.SuccessCount = len(added)

	return c.JSON(http.StatusOK, map[string]any{
		"total_processed": result.TotalProcessed,
		"success_count":   result.SuccessCount,
		"failed_count":    result.FailedCount,
		"errors":          result.Errors,
		"added":           added,
	})
}

// DownloadConsolidationReport streams the family consolidation as an .xlsx
// workbook.
func (h *Handler) DownloadConsolidationReport(c echo.Context) error {
	doc, err := h.DB.Load(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	parentID := c.Param("id")
	totals := services.Consolidate(parentID, doc.Dossiers)

	var members []models.Dossier
	for _, d := range doc.Dossiers {
		if services.SameFamily(d.DossierNumber, parentID) {
			members = append(members, d)
		}
	}

	buf, err := services.WriteConsolidationReport(totals, members)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=consolidation.xlsx")
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
