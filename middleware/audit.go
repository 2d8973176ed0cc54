package middleware

import (
	"case_registry_go/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditContext captures the acting attorney and request metadata and puts them
// on the request context, where the registry service picks them up for audit events.
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac := services.AuditContext{
				IPAddress: c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			}
			if attorney := GetCurrentAttorney(c); attorney != nil {
				ac.ActorID = attorney.ID
				ac.ActorName = attorney.FullName
			}

			c.Set(ContextKeyAuditContext, ac)
			req := c.Request()
			c.SetRequest(req.WithContext(services.WithAuditContext(req.Context(), ac)))
			return next(c)
		}
	}
}

// GetAuditContext retrieves the audit context from the request
func GetAuditContext(c echo.Context) services.AuditContext {
	if ac, ok := c.Get(ContextKeyAuditContext).(services.AuditContext); ok {
		return ac
	}
	return services.AuditContext{}
}
