package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case file status constants
const (
	FileStatusActive    = "Active"
	FileStatusCompleted = "Completed"
)

// RegistryName is the default holding location for physical files
const RegistryName = "Registry"

// CaseFile represents a physical legal case file and everything that travels with it.
// Ledger entries, correspondence, reminders, milestones and requests are owned by
// value and stored as JSON columns on the same row.
type CaseFile struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Identification
	FileNumber string `gorm:"not null;uniqueIndex" json:"file_number"`
	SuitNumber string `json:"suit_number,omitempty"`
	Category   string `gorm:"index" json:"category,omitempty"`
	Group      string `gorm:"column:group_name;index" json:"group,omitempty"`
	Subject    string `gorm:"type:text" json:"subject"`

	// Reporting
	ReportableDate time.Time `gorm:"index" json:"reportable_date"`

	// Assignment (attorneys are referenced by name)
	AssignedTo  string           `gorm:"index" json:"assigned_to,omitempty"`
	CoAssignees JSONList[string] `gorm:"type:text" json:"co_assignees"`

	// Lifecycle
	Status         string     `gorm:"not null;default:Active;index" json:"status"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`

	// Monetary claim
	HasMonetaryClaim bool    `gorm:"not null;default:false" json:"has_monetary_claim"`
	AmountClaimed    float64 `json:"amount_claimed"`
	AmountRecovered  float64 `json:"amount_recovered"`

	// Per-viewer state keyed by attorney id
	LastViewed JSONMap[time.Time] `gorm:"type:text" json:"last_viewed"`
	Pinned     JSONMap[bool]      `gorm:"type:text" json:"pinned"`

	// Owned sub-records
	Movements    JSONList[Movement]     `gorm:"type:text" json:"movements"`
	Letters      JSONList[Letter]       `gorm:"type:text" json:"letters"`
	Reminders    JSONList[Reminder]     `gorm:"type:text" json:"reminders"`
	Milestones   JSONList[Milestone]    `gorm:"type:text" json:"milestones"`
	FileRequests JSONList[FileRequest]  `gorm:"type:text" json:"file_requests"`
	Drafts       JSONList[OpaqueRecord] `gorm:"type:text" json:"drafts"`
	Instructions JSONList[OpaqueRecord] `gorm:"type:text" json:"instructions"`
	Attachments  JSONList[OpaqueRecord] `gorm:"type:text" json:"attachments"`
}

// BeforeCreate hook to generate UUID and default dates
func (f *CaseFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	if f.ReportableDate.IsZero() {
		f.ReportableDate = f.CreatedAt
	}
	if f.Status == "" {
		f.Status = FileStatusActive
	}
	return nil
}

// TableName specifies the table name for CaseFile model
func (CaseFile) TableName() string {
	return "case_files"
}

// IsCompleted checks if the file has been closed out
func (f *CaseFile) IsCompleted() bool {
	return f.Status == FileStatusCompleted
}

// IsPinnedBy reports whether the given viewer pinned this file
func (f *CaseFile) IsPinnedBy(viewerID string) bool {
	if viewerID == "" {
		return false
	}
	return f.Pinned[viewerID]
}

// MilestoneList returns the file's checklist, falling back to the default template
func (f *CaseFile) MilestoneList() []Milestone {
	if f.Milestones == nil {
		return DefaultMilestones()
	}
	return f.Milestones
}

// ActivityReference returns the timestamp inactivity is measured from:
// last activity, else the reportable date, else the creation date.
func (f *CaseFile) ActivityReference() time.Time {
	if f.LastActivityAt != nil && !f.LastActivityAt.IsZero() {
		return *f.LastActivityAt
	}
	if !f.ReportableDate.IsZero() {
		return f.ReportableDate
	}
	return f.CreatedAt
}

// IsValidFileStatus checks if the status is valid
func IsValidFileStatus(status string) bool {
	return status == FileStatusActive || status == FileStatusCompleted
}

// Movement is one custody transfer in a file's ledger
type Movement struct {
	ID         string     `json:"id"`
	Date       time.Time  `json:"date"`
	MovedTo    string     `json:"moved_to"`
	Status     string     `json:"status,omitempty"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
	ReceivedBy string     `json:"received_by,omitempty"`
}

// IsAcknowledged reports whether the receiving custodian confirmed the movement
func (m Movement) IsAcknowledged() bool {
	return m.ReceivedAt != nil
}

// IsToRegistry reports whether the movement sends the file back to the registry.
// A blank destination is treated as the registry.
func (m Movement) IsToRegistry() bool {
	to := strings.TrimSpace(m.MovedTo)
	return to == "" || strings.EqualFold(to, RegistryName)
}

// FileRequest is a practitioner's pending request for the physical file
type FileRequest struct {
	ID            string    `json:"id"`
	RequesterID   string    `json:"requester_id,omitempty"`
	RequesterName string    `json:"requester_name"`
	RequestedAt   time.Time `json:"requested_at"`
}

// Reminder is a dated note attached to a file
type Reminder struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Done      bool       `json:"done"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// OpaqueRecord is a sub-record carried with the file but not interpreted here
// (drafts, instructions, attachment descriptors).
type OpaqueRecord map[string]interface{}
