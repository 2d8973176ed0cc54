package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"case_registry_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFiles(t *testing.T, h *Handler, files ...services.CreateFileInput) {
	t.Helper()
	for _, in := range files {
		_, err := h.Registry.CreateFile(t.Context(), in)
		require.NoError(t, err)
	}
}

func TestGetCaseloadHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	jane := createAttorney(t, h, "Jane Doe", "Civil", false, false)
	sg := createAttorney(t, h, "Solicitor General", "", false, true)
	seedFiles(t, h,
		services.CreateFileInput{FileNumber: "F-1", AssignedTo: "Jane Doe", Group: "Civil"},
		services.CreateFileInput{FileNumber: "F-2", AssignedTo: "John Roe", CoAssignees: []string{"jane doe"}},
		services.CreateFileInput{FileNumber: "F-3", AssignedTo: "John Roe"},
	)

	t.Run("Attorney", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/caseload", nil)
		actAs(c, jane)
		require.NoError(t, h.GetCaseloadHandler(c))

		var caseload services.Caseload
		decodeData(t, rec, &caseload)
		require.Len(t, caseload.Primary, 1)
		assert.Equal(t, "F-1", caseload.Primary[0].FileNumber)
		require.Len(t, caseload.Collaborative, 1)
		assert.Equal(t, "F-2", caseload.Collaborative[0].FileNumber)
	})

	t.Run("ExecutivePaginates", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/caseload?page=2&limit=2", nil)
		actAs(c, sg)
		require.NoError(t, h.GetCaseloadHandler(c))

		var body struct {
			Data       []json.RawMessage `json:"data"`
			Completed  int               `json:"completed"`
			Pagination struct {
				Page       int   `json:"page"`
				Total      int64 `json:"total"`
				TotalPages int   `json:"total_pages"`
			} `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Data, 1)
		assert.Equal(t, 2, body.Pagination.Page)
		assert.EqualValues(t, 3, body.Pagination.Total)
		assert.Equal(t, 2, body.Pagination.TotalPages)
		assert.Zero(t, body.Completed)
	})
}

func TestGetStagnantHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	jane := createAttorney(t, h, "Jane Doe", "Civil", false, false)
	seedFiles(t, h, services.CreateFileInput{FileNumber: "F-1", AssignedTo: "Jane Doe"})

	_, c, rec := setupEcho(http.MethodGet, "/api/caseload/stagnant", nil)
	actAs(c, jane)
	require.NoError(t, h.GetStagnantHandler(c))

	var body struct {
		Data          []json.RawMessage `json:"data"`
		ThresholdDays int               `json:"threshold_days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Data, "a file created today is not stagnant")
	assert.Equal(t, 14, body.ThresholdDays)
}

func TestGetCustodyRegisterHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	sg := createAttorney(t, h, "Solicitor General", "", false, true)
	seedFiles(t, h, services.CreateFileInput{FileNumber: "F-1"})

	_, c, rec := setupEcho(http.MethodGet, "/api/register.xlsx", nil)
	actAs(c, sg)
	require.NoError(t, h.GetCustodyRegisterHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "custody_register_")
	assert.NotZero(t, rec.Body.Len())
}
