package handlers

import (
	"case_registry_go/services"

	"github.com/labstack/echo/v4"
)

// BatchMoveHandler moves many files to one destination in a single write
func (h *Handler) BatchMoveHandler(c echo.Context) error {
	var in services.BatchMoveInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	result, err := h.Registry.BatchMove(c.Request().Context(), in)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshCaseload)
	return ok(c, result)
}

// BatchPickupHandler returns many files to the registry, received by the caller
func (h *Handler) BatchPickupHandler(c echo.Context) error {
	var req struct {
		FileNumbers []string `json:"file_numbers"`
	}
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	summary, err := h.Registry.BatchPickup(c.Request().Context(), req.FileNumbers, currentName(c))
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshCaseload)
	return ok(c, summary)
}
