package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"visa_flow_app_go/db"
	"visa_flow_app_go/models"
	"visa_flow_app_go/services"
)

// Handler exposes the document façade as a JSON API. Handlers stay thin:
// bind input, call the façade and services, return plain structured data.
type Handler struct {
	DB *db.Database
}

// New creates the API handler over the document façade.
func New(database *db.Database) *Handler {
	return &Handler{DB: database}
}

// httpError maps façade errors onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, db.ErrDossierNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Dossier not found")
	case errors.Is(err, db.ErrDuplicateDossier):
		return echo.NewHTTPError(http.StatusConflict, "Dossier number already exists")
	case errors.Is(err, services.ErrInvalidDossierNumber):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid dossier number")
	case errors.Is(err, db.ErrIndexOutOfRange):
		return echo.NewHTTPError(http.StatusNotFound, "No entry at that index")
	case errors.Is(err, db.ErrStorageUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage unavailable")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// ListDossiers returns every dossier, normalized and sorted by number.
func (h *Handler) ListDossiers(c echo.Context) error {
	dossiers, err := h.DB.ListDossiers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dossiers)
}

// GetDossier returns one dossier by number.
func (h *Handler) GetDossier(c echo.Context) error {
	dossier, err := h.DB.GetDossier(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dossier)
}

// CreateDossier creates a dossier from arbitrary raw fields. The number is
// assigned by the identifier service unless the payload carries one.
func (h *Handler) CreateDossier(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	number, err := h.DB.CreateDossier(c.Request().Context(), fields)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"dossier_number": number})
}

// CreateChildDossier creates a sub-case under an existing parent.
func (h *Handler) CreateChildDossier(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	number, err := h.DB.CreateChildDossier(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"dossier_number": number})
}

// UpdateDossier applies a partial field update to a dossier. The optional
// "cause" query parameter labels any escrow transition in the audit trail.
func (h *Handler) UpdateDossier(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cause := c.QueryParam("cause")
	if cause == "" {
		cause = "field update"
	}

	dossier, err := h.DB.UpdateDossier(c.Request().Context(), c.Param("id"), fields, cause)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dossier)
}

// DeleteDossier removes a dossier.
func (h *Handler) DeleteDossier(c echo.Context) error {
	if err := h.DB.DeleteDossier(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetTimeline returns the dated event sequence for a dossier.
func (h *Handler) GetTimeline(c echo.Context) error {
	dossier, err := h.DB.GetDossier(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	events := services.BuildTimeline(*dossier)
	if events == nil {
		events = []models.TimelineEvent{}
	}
	return c.JSON(http.StatusOK, events)
}

// GetConsolidation returns family totals for a dossier's parent.
func (h *Handler) GetConsolidation(c echo.Context) error {
	doc, err := h.DB.Load(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, services.Consolidate(c.Param("id"), doc.Dossiers))
}

// GetEscrowHistory returns the audit trail, optionally filtered by the
// "dossier" query parameter.
func (h *Handler) GetEscrowHistory(c echo.Context) error {
	doc, err := h.DB.Load(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	filter := c.QueryParam("dossier")
	entries := []models.EscrowHistoryEntry{}
	for _, entry := range doc.EscrowHistory {
		if filter == "" || entry.DossierNumber == filter {
			entries = append(entries, entry)
		}
	}
	return c.JSON(http.StatusOK, entries)
}
