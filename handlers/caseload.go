package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"case_registry_go/middleware"
	"case_registry_go/services"

	"github.com/labstack/echo/v4"
)

// GetCaseloadHandler returns the viewer's caseload buckets.
// Executives get a flat, paginated list instead of role buckets.
func (h *Handler) GetCaseloadHandler(c echo.Context) error {
	viewer := middleware.GetViewer(c)
	caseload, err := h.Registry.Caseload(c.Request().Context(), viewer, c.QueryParam("q"))
	if err != nil {
		return respondError(err)
	}

	if !viewer.IsExecutive {
		return ok(c, caseload)
	}

	page := 1
	limit := 20
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	p := services.Paginate(caseload.All, page, limit)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":      p.Files,
		"completed": len(caseload.Completed),
		"pagination": map[string]interface{}{
			"page":        p.Page,
			"limit":       p.Limit,
			"total":       p.Total,
			"total_pages": p.TotalPages,
		},
	})
}

// GetStagnantHandler returns active files idle beyond the stagnation threshold
func (h *Handler) GetStagnantHandler(c echo.Context) error {
	files, err := h.Registry.StagnantFiles(c.Request().Context(), middleware.GetViewer(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":           files,
		"threshold_days": int(services.StagnationThreshold.Hours() / 24),
	})
}

// GetCustodyRegisterHandler downloads the custody register workbook
func (h *Handler) GetCustodyRegisterHandler(c echo.Context) error {
	buf, err := h.Registry.CustodyRegister(c.Request().Context())
	if err != nil {
		return respondError(err)
	}

	filename := fmt.Sprintf("custody_register_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
