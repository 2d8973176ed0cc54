package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction is the action code recorded for a registry operation
type AuditAction string

const (
	AuditActionFileCreate     AuditAction = "FILE_CREATE"
	AuditActionFileUpdate     AuditAction = "FILE_UPDATE"
	AuditActionReassign       AuditAction = "FILE_REASSIGN"
	AuditActionMovement       AuditAction = "MOVEMENT_RECORD"
	AuditActionAcknowledge    AuditAction = "MOVEMENT_ACKNOWLEDGE"
	AuditActionRequest        AuditAction = "FILE_REQUEST"
	AuditActionRequestCancel  AuditAction = "FILE_REQUEST_CANCEL"
	AuditActionLetterCreate   AuditAction = "LETTER_CREATE"
	AuditActionLetterAttach   AuditAction = "LETTER_ATTACH"
	AuditActionLetterDetach   AuditAction = "LETTER_DETACH"
	AuditActionLetterUpdate   AuditAction = "LETTER_UPDATE"
	AuditActionLetterDelete   AuditAction = "LETTER_DELETE"
	AuditActionBatchMove      AuditAction = "BATCH_MOVE"
	AuditActionBatchPickup    AuditAction = "BATCH_PICKUP"
	AuditActionMilestones     AuditAction = "MILESTONES_SET"
	AuditActionReminder       AuditAction = "REMINDER_UPDATE"
	AuditActionAttorneyRename AuditAction = "ATTORNEY_RENAME"
	AuditActionReportableDate AuditAction = "REPORTABLE_DATE_BUMP"
	AuditActionScanAttached   AuditAction = "LETTER_SCAN"
)

// AuditLog represents an immutable record of a registry operation
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_audit_created_at" json:"created_at"`

	// Actor identification (denormalized for historical accuracy)
	ActorID   *string `gorm:"type:uuid;index:idx_audit_actor" json:"actor_id,omitempty"`
	ActorName string  `gorm:"not null" json:"actor_name"`

	// Target
	FileNumber string `gorm:"index:idx_audit_file" json:"file_number,omitempty"`

	// Operation details
	Action AuditAction `gorm:"not null;index:idx_audit_action" json:"action"`
	Detail string      `gorm:"type:text" json:"detail,omitempty"` // Human-readable summary

	// Request metadata (optional)
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// BeforeCreate generates UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of audit logs (immutability)
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any updates
}

// BeforeDelete prevents deletion of audit logs (immutability)
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any deletes
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
