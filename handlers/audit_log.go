package handlers

import (
	"net/http"
	"strconv"
	"time"

	"case_registry_go/services"

	"github.com/labstack/echo/v4"
)

// GetAuditLogsHandler returns filtered and paginated audit logs
func (h *Handler) GetAuditLogsHandler(c echo.Context) error {
	// Parse pagination
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	filters := services.AuditLogFilters{
		ActorID: c.QueryParam("actor_id"),
		Action:  c.QueryParam("action"),
	}
	if dateFrom := c.QueryParam("date_from"); dateFrom != "" {
		if t, err := services.ParseDate(dateFrom); err == nil {
			filters.DateFrom = t
		}
	}
	if dateTo := c.QueryParam("date_to"); dateTo != "" {
		if t, err := services.ParseDate(dateTo); err == nil {
			filters.DateTo = t.Add(24*time.Hour - time.Second) // End of day
		}
	}

	logs, total, err := services.GetAuditLogs(h.DB.WithContext(c.Request().Context()), filters, page, pageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Failed to fetch audit logs")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":      logs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetFileHistoryHandler returns the audit trail of one case file, newest first
func (h *Handler) GetFileHistoryHandler(c echo.Context) error {
	fileNumber := c.Param("fileNumber")
	if _, err := h.Registry.GetFile(c.Request().Context(), fileNumber); err != nil {
		return respondError(err)
	}

	logs, err := services.GetFileAuditHistory(h.DB.WithContext(c.Request().Context()), fileNumber)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Failed to fetch file history")
	}
	return ok(c, logs)
}
