package handlers

import (
	"net/http"

	"case_registry_go/middleware"
	"case_registry_go/services"

	"github.com/labstack/echo/v4"
)

// AddFileReminderHandler adds a reminder to a file
func (h *Handler) AddFileReminderHandler(c echo.Context) error {
	var in services.ReminderInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	reminder, err := h.Registry.AddFileReminder(c.Request().Context(), c.Param("fileNumber"), currentName(c), in)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshFile)
	return c.JSON(http.StatusCreated, map[string]interface{}{"data": reminder})
}

// CompleteFileReminderHandler marks a file reminder done or open
func (h *Handler) CompleteFileReminderHandler(c echo.Context) error {
	var req struct {
		Done bool `json:"done"`
	}
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	reminder, err := h.Registry.CompleteFileReminder(c.Request().Context(), c.Param("fileNumber"), c.Param("id"), req.Done)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshFile)
	return ok(c, reminder)
}

// DeleteFileReminderHandler removes a file reminder
func (h *Handler) DeleteFileReminderHandler(c echo.Context) error {
	if err := h.Registry.DeleteFileReminder(c.Request().Context(), c.Param("fileNumber"), c.Param("id")); err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshFile)
	return c.NoContent(http.StatusNoContent)
}

// ListRemindersHandler returns the caller's general reminders
func (h *Handler) ListRemindersHandler(c echo.Context) error {
	reminders, err := h.Registry.ListGeneralReminders(c.Request().Context(), middleware.GetViewer(c).ID)
	if err != nil {
		return respondError(err)
	}
	return ok(c, reminders)
}

// CreateReminderHandler adds a general reminder for the caller
func (h *Handler) CreateReminderHandler(c echo.Context) error {
	var in services.ReminderInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	reminder, err := h.Registry.CreateGeneralReminder(c.Request().Context(), middleware.GetViewer(c), in)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"data": reminder})
}

// DeleteReminderHandler removes one of the caller's general reminders
func (h *Handler) DeleteReminderHandler(c echo.Context) error {
	if err := h.Registry.DeleteGeneralReminder(c.Request().Context(), middleware.GetViewer(c).ID, c.Param("id")); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
