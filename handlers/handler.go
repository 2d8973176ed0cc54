package handlers

import (
	"net/http"
	"strings"

	"case_registry_go/middleware"
	"case_registry_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Views the client refreshes after a mutation (sent in the HX-Trigger header)
const (
	RefreshCaseload   = "refreshCaseload"
	RefreshFile       = "refreshFile"
	RefreshUnassigned = "refreshUnassigned"
)

// Handler serves the registry JSON API
type Handler struct {
	DB            *gorm.DB // audit log queries
	Registry      *services.RegistryService
	Attorneys     *services.AttorneyDirectory
	Notifications *services.NotificationService
}

func New(db *gorm.DB, registry *services.RegistryService, attorneys *services.AttorneyDirectory, notifications *services.NotificationService) *Handler {
	return &Handler{DB: db, Registry: registry, Attorneys: attorneys, Notifications: notifications}
}

// respondError maps a structured service error to an HTTP error carrying its message verbatim
func respondError(err error) error {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.ErrNotFound:
		status = http.StatusNotFound
	case services.ErrConflict:
		status = http.StatusConflict
	case services.ErrValidationFailed:
		status = http.StatusBadRequest
	case services.ErrStoreUnavailable:
		status = http.StatusServiceUnavailable
	}
	return echo.NewHTTPError(status, services.MessageOf(err))
}

// triggerRefresh tells the client which views are stale
func triggerRefresh(c echo.Context, views ...string) {
	c.Response().Header().Set("HX-Trigger", strings.Join(views, ", "))
}

// bindJSON decodes the request body, rejecting malformed input
func bindJSON(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return nil
}

// currentName is the acting attorney's name, used as receivedBy/requester
func currentName(c echo.Context) string {
	if attorney := middleware.GetCurrentAttorney(c); attorney != nil {
		return attorney.FullName
	}
	return ""
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"data": data})
}
