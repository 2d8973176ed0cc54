package services

import (
	"context"
	"log"
	"time"

	"case_registry_go/models"

	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	ActorID   string
	ActorName string
	IPAddress string
	UserAgent string
}

type auditContextKey struct{}

// WithAuditContext attaches the acting attorney and request metadata to ctx
func WithAuditContext(ctx context.Context, ac AuditContext) context.Context {
	return context.WithValue(ctx, auditContextKey{}, ac)
}

// AuditContextFrom returns the audit context stored in ctx, if any
func AuditContextFrom(ctx context.Context) AuditContext {
	if ac, ok := ctx.Value(auditContextKey{}).(AuditContext); ok {
		return ac
	}
	return AuditContext{}
}

// AuditEvent is the contract emitted after every successful mutation
type AuditEvent struct {
	Actor      string
	ActionCode models.AuditAction
	Detail     string
	FileNumber string
}

// AuditLogger receives audit events. Persistence mechanics are up to the implementation.
type AuditLogger interface {
	Record(ctx context.Context, event AuditEvent)
}

// GormAuditLogger persists audit events as immutable audit_logs rows
type GormAuditLogger struct {
	DB *gorm.DB
	// Sync writes inline instead of in a goroutine (used by tests and CLIs)
	Sync bool
}

func NewGormAuditLogger(db *gorm.DB) *GormAuditLogger {
	return &GormAuditLogger{DB: db}
}

// Record creates a new audit log entry, asynchronously unless Sync is set
func (l *GormAuditLogger) Record(ctx context.Context, event AuditEvent) {
	ac := AuditContextFrom(ctx)
	actor := event.Actor
	if actor == "" {
		actor = ac.ActorName
	}
	if actor == "" {
		actor = "system"
	}

	auditLog := models.AuditLog{
		ActorID:    ptrIfNotEmpty(ac.ActorID),
		ActorName:  actor,
		FileNumber: event.FileNumber,
		Action:     event.ActionCode,
		Detail:     event.Detail,
		IPAddress:  ac.IPAddress,
		UserAgent:  ac.UserAgent,
	}

	write := func() {
		if err := l.DB.Create(&auditLog).Error; err != nil {
			log.Printf("[AUDIT] Failed to create audit log: %v", err)
		}
	}
	if l.Sync {
		write()
		return
	}
	// Run in goroutine to avoid blocking the request
	go write()
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetFileAuditHistory retrieves the audit history for one case file
func GetFileAuditHistory(db *gorm.DB, fileNumber string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("file_number = ?", fileNumber).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// AuditLogFilters contains filter options for audit log queries
type AuditLogFilters struct {
	ActorID  string
	Action   string
	DateFrom time.Time
	DateTo   time.Time
}

// GetAuditLogs retrieves paginated audit logs
func GetAuditLogs(db *gorm.DB, filters AuditLogFilters, page, pageSize int) ([]models.AuditLog, int64, error) {
	query := db.Model(&models.AuditLog{})

	// Apply filters
	if filters.ActorID != "" {
		query = query.Where("actor_id = ?", filters.ActorID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}

	// Count total
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated results
	var logs []models.AuditLog
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}

type noopAuditLogger struct{}

func (noopAuditLogger) Record(context.Context, AuditEvent) {}
