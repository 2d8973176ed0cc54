package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeCustodyReceived = "CUSTODY_RECEIVED"
	NotificationTypeFilesCollected  = "FILES_COLLECTED"
)

type Notification struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Targeting (custodian identity; AttorneyID is empty when the name is unknown)
	AttorneyID    *string `gorm:"type:uuid;index" json:"attorney_id,omitempty"`
	CustodianName string  `gorm:"not null;index" json:"custodian_name"`

	// Content
	Type        string           `gorm:"not null" json:"type"`
	Title       string           `gorm:"not null" json:"title"`
	Message     string           `gorm:"type:text" json:"message"`
	FileNumbers JSONList[string] `gorm:"type:text" json:"file_numbers"`

	// Read tracking
	ReadAt *time.Time `json:"read_at,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
