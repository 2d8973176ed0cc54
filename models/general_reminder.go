package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeneralReminder is a reminder not tied to any case file
type GeneralReminder struct {
	ID        string     `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	OwnerID   string     `gorm:"type:uuid;index" json:"owner_id"`
	OwnerName string     `json:"owner_name"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	DueAt     *time.Time `gorm:"index" json:"due_at,omitempty"`
	Done      bool       `gorm:"not null;default:false" json:"done"`
}

// BeforeCreate hook to generate UUID
func (r *GeneralReminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for GeneralReminder model
func (GeneralReminder) TableName() string {
	return "general_reminders"
}
