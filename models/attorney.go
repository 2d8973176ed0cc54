package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attorney is a practitioner who can hold, lead or supervise case files
type Attorney struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FullName     string `gorm:"not null;uniqueIndex" json:"full_name"`
	Email        string `json:"email,omitempty"`
	Group        string `gorm:"column:group_name;index" json:"group,omitempty"`
	IsGroupHead  bool   `gorm:"not null;default:false" json:"is_group_head"`
	IsSG         bool   `gorm:"not null;default:false" json:"is_sg"` // cross-group executive
	BindingToken string `gorm:"index" json:"-"`                       // identity binding, verified upstream
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (a *Attorney) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Attorney model
func (Attorney) TableName() string {
	return "attorneys"
}

// NormalizeName returns the comparison key used for name-based matching
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NamesMatch compares two attorney names case-insensitively, ignoring surrounding space
func NamesMatch(a, b string) bool {
	na := NormalizeName(a)
	return na != "" && na == NormalizeName(b)
}
