package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Correspondence type constants
const (
	LetterTypeIncoming     = "INCOMING"
	LetterTypeOutgoing     = "OUTGOING"
	LetterTypeFiling       = "FILING"
	LetterTypeCourtProcess = "COURT_PROCESS"
	LetterTypeMemo         = "MEMO"
)

// Letter is a correspondence item. It lives either in the unassigned pool
// (FileNumber empty) or in exactly one case file's letter list.
type Letter struct {
	ID             string     `gorm:"type:uuid;primarykey" json:"id"`
	Date           time.Time  `json:"date"`
	Type           string     `gorm:"not null;index" json:"type"`
	Subject        string     `gorm:"type:text" json:"subject"`
	Correspondent  string     `json:"correspondent,omitempty"` // recipient for outgoing, source otherwise
	DocumentNumber string     `json:"document_number,omitempty"`
	Remarks        string     `gorm:"type:text" json:"remarks,omitempty"`
	HearingDate    *time.Time `json:"hearing_date,omitempty"`
	ProcessType    string     `json:"process_type,omitempty"`
	ScanLink       string     `json:"scan_link,omitempty"`
	FileNumber     string     `gorm:"-" json:"file_number,omitempty"`
}

// IsValidLetterType checks if the correspondence type is one of the known categories
func IsValidLetterType(letterType string) bool {
	switch letterType {
	case LetterTypeIncoming, LetterTypeOutgoing, LetterTypeFiling, LetterTypeCourtProcess, LetterTypeMemo:
		return true
	}
	return false
}

// UnassignedLetter is a pool row holding a letter that belongs to no file yet
type UnassignedLetter struct {
	Letter    `gorm:"embedded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (u *UnassignedLetter) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for the unassigned pool
func (UnassignedLetter) TableName() string {
	return "unassigned_letters"
}
