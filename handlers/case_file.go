package handlers

import (
	"log"
	"net/http"
	"time"

	"case_registry_go/middleware"
	"case_registry_go/models"
	"case_registry_go/services"

	"github.com/labstack/echo/v4"
)

// FileDetail is a case file with its derived custody and progress
type FileDetail struct {
	*models.CaseFile
	Custody  services.CustodyStatus     `json:"custody"`
	Progress services.MilestoneProgress `json:"progress"`
}

func (h *Handler) detail(file *models.CaseFile) FileDetail {
	return FileDetail{
		CaseFile: file,
		Custody:  services.ResolveCustody(file.Movements, time.Now()),
		Progress: services.ProgressOf(file),
	}
}

// GetFileHandler returns one file and stamps it as viewed by the caller
func (h *Handler) GetFileHandler(c echo.Context) error {
	ctx := c.Request().Context()
	viewer := middleware.GetViewer(c)

	file, err := h.Registry.GetFile(ctx, c.Param("fileNumber"))
	if err != nil {
		return respondError(err)
	}
	if viewer.ID != "" {
		if viewed, err := h.Registry.MarkViewed(ctx, file.FileNumber, viewer.ID); err != nil {
			log.Printf("[WARNING] Failed to mark %s viewed: %v", file.FileNumber, err)
		} else {
			file = viewed
		}
	}
	return ok(c, h.detail(file))
}

// CreateFileHandler opens a new case file
func (h *Handler) CreateFileHandler(c echo.Context) error {
	var in services.CreateFileInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	file, err := h.Registry.CreateFile(c.Request().Context(), in)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshCaseload)
	return c.JSON(http.StatusCreated, map[string]interface{}{"data": h.detail(file)})
}

// UpdateFileHandler edits file details; lead or group changes are recorded as reassignments
func (h *Handler) UpdateFileHandler(c echo.Context) error {
	var patch services.FilePatch
	if err := bindJSON(c, &patch); err != nil {
		return err
	}

	file, err := h.Registry.UpdateFile(c.Request().Context(), c.Param("fileNumber"), patch)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshCaseload, RefreshFile)
	return ok(c, h.detail(file))
}

// BumpReportableDateHandler moves the file's reportable date
func (h *Handler) BumpReportableDateHandler(c echo.Context) error {
	var req struct {
		Date time.Time `json:"date"`
	}
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	file, err := h.Registry.BumpReportableDate(c.Request().Context(), c.Param("fileNumber"), req.Date)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshFile)
	return ok(c, h.detail(file))
}

// SetPinHandler pins or unpins a file for the caller
func (h *Handler) SetPinHandler(c echo.Context) error {
	var req struct {
		Pinned bool `json:"pinned"`
	}
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	viewer := middleware.GetViewer(c)
	file, err := h.Registry.SetPinned(c.Request().Context(), c.Param("fileNumber"), viewer.ID, req.Pinned)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshCaseload)
	return ok(c, h.detail(file))
}

// SetMilestonesHandler replaces the file's milestone checklist
func (h *Handler) SetMilestonesHandler(c echo.Context) error {
	var req struct {
		Milestones []models.Milestone `json:"milestones"`
	}
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	file, err := h.Registry.SetMilestones(c.Request().Context(), c.Param("fileNumber"), req.Milestones)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshFile)
	return ok(c, services.ProgressOf(file))
}

// ImportFilesHandler creates files from an uploaded xlsx workbook
func (h *Handler) ImportFilesHandler(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Workbook is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read workbook")
	}
	defer src.Close()

	result, err := h.Registry.ImportFiles(c.Request().Context(), src)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshCaseload)
	return ok(c, result)
}
