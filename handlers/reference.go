package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"visa_flow_app_go/models"
)

func indexParam(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid index")
	}
	return index, nil
}

// ListVisaReference returns the visa reference table.
func (h *Handler) ListVisaReference(c echo.Context) error {
	rows, err := h.DB.ListVisaRows(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

// AddVisaReference appends a (category, subcategory, visa) triple.
func (h *Handler) AddVisaReference(c echo.Context) error {
	var row models.VisaRow
	if err := c.Bind(&row); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.DB.AddVisaRow(c.Request().Context(), row); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, row)
}

// UpdateVisaReference replaces the row at the given index.
func (h *Handler) UpdateVisaReference(c echo.Context) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}

	var row models.VisaRow
	if err := c.Bind(&row); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.DB.UpdateVisaRow(c.Request().Context(), index, row); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, row)
}

// DeleteVisaReference removes the row at the given index.
func (h *Handler) DeleteVisaReference(c echo.Context) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}

	if err := h.DB.DeleteVisaRow(c.Request().Context(), index); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBookkeeping returns all ledger entries.
func (h *Handler) ListBookkeeping(c echo.Context) error {
	entries, err := h.DB.ListBookkeeping(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// AddBookkeeping appends a ledger entry.
func (h *Handler) AddBookkeeping(c echo.Context) error {
	var entry models.BookkeepingEntry
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	created, err := h.DB.AddBookkeepingEntry(c.Request().Context(), entry)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateBookkeeping replaces the entry at the given index.
func (h *Handler) UpdateBookkeeping(c echo.Context) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}

	var entry models.BookkeepingEntry
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.DB.UpdateBookkeepingEntry(c.Request().Context(), index, entry); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// DeleteBookkeeping removes the entry at the given index.
func (h *Handler) DeleteBookkeeping(c echo.Context) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}

	if err := h.DB.DeleteBookkeepingEntry(c.Request().Context(), index); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
