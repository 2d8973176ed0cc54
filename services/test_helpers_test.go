package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"case_registry_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while letting async writers see the same DB
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

type recordingNotifier struct {
	mu      sync.Mutex
	notices []CustodianNotice
	err     error
}

func (n *recordingNotifier) NotifyCustodians(_ context.Context, notices []CustodianNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notices...)
	return n.err
}

type recordingAudit struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (a *recordingAudit) Record(_ context.Context, event AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *recordingAudit) actions() []models.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.ActionCode)
	}
	return out
}

type testRegistry struct {
	*RegistryService
	DB       *gorm.DB
	Notifier *recordingNotifier
	Audit    *recordingAudit
}

// newTestRegistry wires a registry over an in-memory store with a fixed clock
// and increasing ids, so ledger ordering is deterministic.
func newTestRegistry(t *testing.T) *testRegistry {
	testDB := setupTestDB(t)
	notifier := &recordingNotifier{}
	audit := &recordingAudit{}

	svc := NewRegistryService(NewGormRecordStore(testDB))
	svc.Notifier = notifier
	svc.Audit = audit
	svc.Attorneys = NewAttorneyDirectory(testDB)
	svc.Now = func() time.Time { return testNow }

	var mu sync.Mutex
	seq := 0
	svc.NewID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("id-%04d", seq)
	}

	return &testRegistry{RegistryService: svc, DB: testDB, Notifier: notifier, Audit: audit}
}

// createFile opens a file with the given lead and optional starting ledger
func (r *testRegistry) createFile(t *testing.T, fileNumber, lead string, movements ...models.Movement) *models.CaseFile {
	file, err := r.CreateFile(context.Background(), CreateFileInput{
		FileNumber: fileNumber,
		Subject:    "Subject " + fileNumber,
		Group:      "Civil",
		AssignedTo: lead,
	})
	require.NoError(t, err)

	if len(movements) > 0 {
		err = r.Store.UpdateFile(context.Background(), file.ID, map[string]interface{}{
			"movements": models.JSONList[models.Movement](movements),
		})
		require.NoError(t, err)
		file.Movements = movements
	}
	return file
}

func (r *testRegistry) reload(t *testing.T, fileNumber string) *models.CaseFile {
	file, err := r.Store.GetFile(context.Background(), fileNumber)
	require.NoError(t, err)
	return file
}

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func ptr[T any](v T) *T {
	return &v
}
