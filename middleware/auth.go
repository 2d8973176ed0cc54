package middleware

import (
	"net/http"

	"case_registry_go/models"
	"case_registry_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// AttorneyHeader carries the attorney id verified by the upstream identity layer
	AttorneyHeader = "X-Attorney-ID"
	// ContextKeyAttorney is the context key for the acting attorney
	ContextKeyAttorney = "attorney"
	// ContextKeyViewer is the context key for the caseload viewer
	ContextKeyViewer = "viewer"
)

// RequireAttorney resolves the acting attorney from the identity header.
// Requests without a known, active attorney are rejected.
func RequireAttorney(directory *services.AttorneyDirectory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(AttorneyHeader)
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			attorney, err := directory.Get(c.Request().Context(), id)
			if err != nil {
				if services.KindOf(err) == services.ErrStoreUnavailable {
					return echo.NewHTTPError(http.StatusServiceUnavailable, services.MessageOf(err))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Unknown attorney")
			}

			c.Set(ContextKeyAttorney, attorney)
			c.Set(ContextKeyViewer, services.ViewerOf(attorney))
			return next(c)
		}
	}
}

// RequireExecutive only lets cross-group executives through
func RequireExecutive() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			attorney := GetCurrentAttorney(c)
			if attorney == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}
			if !attorney.IsSG {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}

// GetCurrentAttorney retrieves the acting attorney from context
func GetCurrentAttorney(c echo.Context) *models.Attorney {
	attorney, ok := c.Get(ContextKeyAttorney).(*models.Attorney)
	if !ok {
		return nil
	}
	return attorney
}

// GetViewer retrieves the caseload viewer from context
func GetViewer(c echo.Context) services.Viewer {
	if viewer, ok := c.Get(ContextKeyViewer).(services.Viewer); ok {
		return viewer
	}
	return services.Viewer{}
}
