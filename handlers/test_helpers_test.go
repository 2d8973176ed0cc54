package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"case_registry_go/config"
	"case_registry_go/middleware"
	"case_registry_go/models"
	"case_registry_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.CaseFile{},
		&models.UnassignedLetter{},
		&models.GeneralReminder{},
		&models.Attorney{},
		&models.AuditLog{},
		&models.Notification{},
	)
	require.NoError(t, err)
	return testDB
}

// newTestHandler wires the handler over a fresh in-memory store with synchronous audit writes
func newTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	testDB := setupTestDB(t)
	attorneys := services.NewAttorneyDirectory(testDB)
	notifications := services.NewNotificationService(testDB, nil)

	registry := services.NewRegistryService(services.NewGormRecordStore(testDB))
	registry.Audit = &services.GormAuditLogger{DB: testDB, Sync: true}
	registry.Notifier = notifications
	registry.Attorneys = attorneys
	registry.Scans = services.NewLocalStorage(t.TempDir())
	registry.MaxBatchSize = 50

	return New(testDB, registry, attorneys, notifications), testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// createAttorney registers an attorney in the directory
func createAttorney(t *testing.T, h *Handler, name, group string, groupHead, sg bool) *models.Attorney {
	t.Helper()
	a := &models.Attorney{FullName: name, Group: group, IsGroupHead: groupHead, IsSG: sg}
	require.NoError(t, h.Attorneys.Create(t.Context(), a))
	return a
}

// actAs puts the attorney on the context the way RequireAttorney does
func actAs(c echo.Context, a *models.Attorney) {
	c.Set(middleware.ContextKeyAttorney, a)
	c.Set(middleware.ContextKeyViewer, services.ViewerOf(a))
	ctx := services.WithAuditContext(c.Request().Context(), services.AuditContext{ActorID: a.ID, ActorName: a.FullName})
	c.SetRequest(c.Request().WithContext(ctx))
}

func withParams(c echo.Context, kv ...string) {
	var names, values []string
	for i := 0; i+1 < len(kv); i += 2 {
		names = append(names, kv[i])
		values = append(values, kv[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
}

// statusOf returns the HTTP status carried by a handler error
func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	if err != nil {
		return http.StatusInternalServerError
	}
	return 0
}

// decodeData unmarshals the "data" member of a JSON response
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}
