package handlers

import (
	"net/http"

	"case_registry_go/middleware"
	"case_registry_go/services"

	"github.com/labstack/echo/v4"
)

// RecordMovementHandler appends a custody transfer to a file's ledger
func (h *Handler) RecordMovementHandler(c echo.Context) error {
	var in services.MovementInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	file, err := h.Registry.RecordMovement(c.Request().Context(), c.Param("fileNumber"), in)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshCaseload, RefreshFile)
	return c.JSON(http.StatusCreated, map[string]interface{}{"data": h.detail(file)})
}

// AcknowledgeMovementHandler records receipt of a movement by the caller
func (h *Handler) AcknowledgeMovementHandler(c echo.Context) error {
	file, err := h.Registry.AcknowledgeMovement(c.Request().Context(),
		c.Param("fileNumber"), c.Param("id"), currentName(c))
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshCaseload, RefreshFile)
	return ok(c, h.detail(file))
}

// RequestFileHandler queues the caller's request for the physical file
func (h *Handler) RequestFileHandler(c echo.Context) error {
	viewer := middleware.GetViewer(c)
	file, err := h.Registry.RequestFile(c.Request().Context(), c.Param("fileNumber"), viewer.ID, viewer.FullName)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshFile)
	return ok(c, h.detail(file))
}

// CancelRequestHandler withdraws a pending file request
func (h *Handler) CancelRequestHandler(c echo.Context) error {
	file, err := h.Registry.CancelRequest(c.Request().Context(), c.Param("fileNumber"), c.Param("id"))
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshFile)
	return ok(c, h.detail(file))
}
