package handlers

import (
	"net/http"

	"case_registry_go/middleware"

	"github.com/labstack/echo/v4"
)

// GetNotificationsHandler returns the caller's unread custody notices
func (h *Handler) GetNotificationsHandler(c echo.Context) error {
	viewer := middleware.GetViewer(c)
	notifications, err := h.Notifications.GetUnreadNotifications(viewer.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load notifications")
	}
	return ok(c, notifications)
}

// MarkNotificationReadHandler marks one of the caller's notifications as read
func (h *Handler) MarkNotificationReadHandler(c echo.Context) error {
	viewer := middleware.GetViewer(c)
	if err := h.Notifications.MarkAsRead(c.Param("id"), viewer.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error marking as read")
	}
	return c.NoContent(http.StatusNoContent)
}
