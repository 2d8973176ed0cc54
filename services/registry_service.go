package services

import (
	"context"
	"log"
	"time"

	"case_registry_go/metrics"
	"case_registry_go/models"

	"github.com/google/uuid"
)

// RegistryService applies registry operations to case files through a RecordStore.
// It holds no locks; each operation reads the latest snapshot and writes it back.
type RegistryService struct {
	Store        RecordStore
	Audit        AuditLogger
	Notifier     Notifier
	Metrics      *metrics.Metrics
	Attorneys    *AttorneyDirectory
	Scans        ScanStorage
	MaxBatchSize int // 0 disables the limit

	Now   func() time.Time
	NewID func() string
}

func NewRegistryService(store RecordStore) *RegistryService {
	return &RegistryService{
		Store:    store,
		Audit:    noopAuditLogger{},
		Notifier: noopNotifier{},
		Now:      time.Now,
		NewID:    NewTimeOrderedID,
	}
}

// NewTimeOrderedID returns a UUIDv7. Ids from one process sort in creation
// order, which the ledger relies on to break ties between same-date movements.
func NewTimeOrderedID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *RegistryService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *RegistryService) newID() string {
	if s.NewID == nil {
		return NewTimeOrderedID()
	}
	return s.NewID()
}

func (s *RegistryService) audit(ctx context.Context, action models.AuditAction, fileNumber, detail string) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, AuditEvent{
		Actor:      AuditContextFrom(ctx).ActorName,
		ActionCode: action,
		Detail:     detail,
		FileNumber: fileNumber,
	})
}

// notify hands notices to the notifier. Delivery problems never fail the operation.
func (s *RegistryService) notify(ctx context.Context, notices []CustodianNotice) {
	if s.Notifier == nil || len(notices) == 0 {
		return
	}
	if err := s.Notifier.NotifyCustodians(ctx, notices); err != nil {
		log.Printf("[WARNING] Failed to notify custodians: %v", err)
	}
}

// loadFile fetches a file after rejecting an empty file number
func (s *RegistryService) loadFile(ctx context.Context, fileNumber string) (*models.CaseFile, error) {
	if fileNumber == "" {
		return nil, invalidf("file number is required")
	}
	return s.Store.GetFile(ctx, fileNumber)
}

// fileColumns is the column patch for every user-editable field plus the lists
// a reassignment can touch.
func fileColumns(f *models.CaseFile) map[string]interface{} {
	return map[string]interface{}{
		"suit_number":        f.SuitNumber,
		"category":           f.Category,
		"group_name":         f.Group,
		"subject":            f.Subject,
		"reportable_date":    f.ReportableDate,
		"assigned_to":        f.AssignedTo,
		"co_assignees":       f.CoAssignees,
		"status":             f.Status,
		"completed_at":       f.CompletedAt,
		"has_monetary_claim": f.HasMonetaryClaim,
		"amount_claimed":     f.AmountClaimed,
		"amount_recovered":   f.AmountRecovered,
		"last_activity_at":   f.LastActivityAt,
		"movements":          f.Movements,
		"file_requests":      f.FileRequests,
	}
}
