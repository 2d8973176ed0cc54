package handlers

import (
	"net/http"

	"case_registry_go/services"

	"github.com/labstack/echo/v4"
)

// ListUnassignedHandler returns the unassigned correspondence pool
func (h *Handler) ListUnassignedHandler(c echo.Context) error {
	letters, err := h.Registry.ListUnassignedItems(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return ok(c, letters)
}

// CreateLetterHandler records a new letter in the unassigned pool
func (h *Handler) CreateLetterHandler(c echo.Context) error {
	var in services.LetterInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	letter, err := h.Registry.RecordUnassignedItem(c.Request().Context(), in)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshUnassigned)
	return c.JSON(http.StatusCreated, map[string]interface{}{"data": letter})
}

// AttachLetterHandler moves a pool letter onto a file
func (h *Handler) AttachLetterHandler(c echo.Context) error {
	var req struct {
		FileNumber string `json:"file_number"`
	}
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	file, err := h.Registry.AttachLetter(c.Request().Context(), c.Param("id"), req.FileNumber)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshUnassigned, RefreshFile)
	return ok(c, h.detail(file))
}

// DetachLetterHandler returns a file's letter to the unassigned pool
func (h *Handler) DetachLetterHandler(c echo.Context) error {
	letter, err := h.Registry.DetachLetter(c.Request().Context(), c.Param("fileNumber"), c.Param("id"))
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshUnassigned, RefreshFile)
	return ok(c, letter)
}

// EditAttachedLetterHandler edits a letter on a file
func (h *Handler) EditAttachedLetterHandler(c echo.Context) error {
	var patch services.LetterPatch
	if err := bindJSON(c, &patch); err != nil {
		return err
	}

	letter, err := h.Registry.EditAttached(c.Request().Context(), c.Param("fileNumber"), c.Param("id"), patch)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshFile)
	return ok(c, letter)
}

// DeleteAttachedLetterHandler deletes a letter from a file
func (h *Handler) DeleteAttachedLetterHandler(c echo.Context) error {
	if err := h.Registry.DeleteAttached(c.Request().Context(), c.Param("fileNumber"), c.Param("id")); err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshFile)
	return c.NoContent(http.StatusNoContent)
}

// EditUnassignedLetterHandler edits a pool letter
func (h *Handler) EditUnassignedLetterHandler(c echo.Context) error {
	var patch services.LetterPatch
	if err := bindJSON(c, &patch); err != nil {
		return err
	}

	letter, err := h.Registry.EditUnassigned(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshUnassigned)
	return ok(c, letter)
}

// DeleteUnassignedLetterHandler deletes a pool letter
func (h *Handler) DeleteUnassignedLetterHandler(c echo.Context) error {
	if err := h.Registry.DeleteUnassigned(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(err)
	}

	triggerRefresh(c, RefreshUnassigned)
	return c.NoContent(http.StatusNoContent)
}

// UploadScanHandler stores a scan for a letter. A file_number form field
// targets a letter attached to that file; without it the pool is used.
func (h *Handler) UploadScanHandler(c echo.Context) error {
	fileHeader, err := c.FormFile("scan")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Scan file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read scan")
	}
	defer src.Close()

	fileNumber := c.FormValue("file_number")
	letter, err := h.Registry.AttachScan(c.Request().Context(), fileNumber, c.Param("id"), services.ScanUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Body:     src,
	})
	if err != nil {
		return respondError(err)
	}

	if fileNumber == "" {
		triggerRefresh(c, RefreshUnassigned)
	} else {
		triggerRefresh(c, RefreshFile)
	}
	return ok(c, letter)
}
