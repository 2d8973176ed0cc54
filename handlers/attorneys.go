package handlers

import (
	"net/http"

	"case_registry_go/middleware"
	"case_registry_go/models"

	"github.com/labstack/echo/v4"
)

// GetMeHandler returns the acting attorney
func (h *Handler) GetMeHandler(c echo.Context) error {
	attorney := middleware.GetCurrentAttorney(c)
	if attorney == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return ok(c, attorney)
}

// ListAttorneysHandler returns active attorneys, optionally for one group
func (h *Handler) ListAttorneysHandler(c echo.Context) error {
	attorneys, err := h.Attorneys.List(c.Request().Context(), c.QueryParam("group"))
	if err != nil {
		return respondError(err)
	}
	return ok(c, attorneys)
}

// CreateAttorneyHandler adds an attorney to the directory
func (h *Handler) CreateAttorneyHandler(c echo.Context) error {
	var req struct {
		FullName    string `json:"full_name"`
		Email       string `json:"email"`
		Group       string `json:"group"`
		IsGroupHead bool   `json:"is_group_head"`
		IsSG        bool   `json:"is_sg"`
	}
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	attorney := &models.Attorney{
		FullName:    req.FullName,
		Email:       req.Email,
		Group:       req.Group,
		IsGroupHead: req.IsGroupHead,
		IsSG:        req.IsSG,
	}
	if err := h.Attorneys.Create(c.Request().Context(), attorney); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"data": attorney})
}

// RenameAttorneyHandler propagates a name change across every file
func (h *Handler) RenameAttorneyHandler(c echo.Context) error {
	var req struct {
		OldName string `json:"old_name"`
		NewName string `json:"new_name"`
	}
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.Registry.RenameAttorney(c.Request().Context(), req.OldName, req.NewName)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshCaseload)
	return ok(c, result)
}
