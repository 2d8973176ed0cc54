package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"case_registry_go/models"

	"gorm.io/gorm"
)

// FileRef identifies a case file inside a notification payload
type FileRef struct {
	FileNumber string `json:"file_number"`
	SuitNumber string `json:"suit_number,omitempty"`
	Subject    string `json:"subject,omitempty"`
}

func fileRefOf(f *models.CaseFile) FileRef {
	return FileRef{FileNumber: f.FileNumber, SuitNumber: f.SuitNumber, Subject: f.Subject}
}

// CustodianNotice is a notification payload keyed by custodian identity
type CustodianNotice struct {
	Custodian string    `json:"custodian"`
	Type      string    `json:"type"`
	Files     []FileRef `json:"files"`
}

// Notifier delivers custodian notices. Message wording is the implementation's concern.
type Notifier interface {
	NotifyCustodians(ctx context.Context, notices []CustodianNotice) error
}

// NotificationService stores in-app notifications and optionally e-mails the custodian
type NotificationService struct {
	DB     *gorm.DB
	Mailer *EmailNotifier
}

func NewNotificationService(db *gorm.DB, mailer *EmailNotifier) *NotificationService {
	return &NotificationService{DB: db, Mailer: mailer}
}

// NotifyCustodians writes one notification per custodian and hands it to the mailer
func (s *NotificationService) NotifyCustodians(ctx context.Context, notices []CustodianNotice) error {
	for _, notice := range notices {
		var attorney models.Attorney
		var attorneyID *string
		err := s.DB.WithContext(ctx).
			Where("LOWER(TRIM(full_name)) = ?", models.NormalizeName(notice.Custodian)).
			First(&attorney).Error
		if err == nil {
			attorneyID = &attorney.ID
		}

		title, message := describeNotice(notice)
		fileNumbers := make([]string, 0, len(notice.Files))
		for _, f := range notice.Files {
			fileNumbers = append(fileNumbers, f.FileNumber)
		}

		notification := models.Notification{
			AttorneyID:    attorneyID,
			CustodianName: notice.Custodian,
			Type:          notice.Type,
			Title:         title,
			Message:       message,
			FileNumbers:   fileNumbers,
		}
		if err := s.DB.WithContext(ctx).Create(&notification).Error; err != nil {
			return fmt.Errorf("failed to create notification for %s: %w", notice.Custodian, err)
		}

		if s.Mailer != nil && attorneyID != nil && attorney.Email != "" {
			s.Mailer.SendAsync(&Email{
				To:       []string{attorney.Email},
				Subject:  title,
				TextBody: message,
			})
		}
		log.Printf("[NOTIFY] %s -> %s (%d files)", notice.Type, notice.Custodian, len(notice.Files))
	}
	return nil
}

func describeNotice(notice CustodianNotice) (string, string) {
	numbers := make([]string, 0, len(notice.Files))
	for _, f := range notice.Files {
		numbers = append(numbers, f.FileNumber)
	}
	list := strings.Join(numbers, ", ")

	switch notice.Type {
	case models.NotificationTypeFilesCollected:
		return fmt.Sprintf("%d file(s) collected by the registry", len(notice.Files)),
			fmt.Sprintf("The registry has collected the following files from you: %s.", list)
	case models.NotificationTypeCustodyReceived:
		return "File receipt acknowledged",
			fmt.Sprintf("Receipt of %s has been acknowledged.", list)
	default:
		return "Case file update", list
	}
}

// GetUnreadNotifications returns the latest unread notifications for an attorney
func (s *NotificationService) GetUnreadNotifications(attorneyID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("attorney_id = ? AND read_at IS NULL", attorneyID).
		Order("created_at DESC").
		Limit(20).
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead marks one notification owned by the attorney as read
func (s *NotificationService) MarkAsRead(notificationID, attorneyID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND attorney_id = ?", notificationID, attorneyID).
		Update("read_at", now).Error
}

type noopNotifier struct{}

func (noopNotifier) NotifyCustodians(context.Context, []CustodianNotice) error { return nil }
