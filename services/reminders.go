package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"case_registry_go/models"
)

// ReminderInput is a new reminder on a file or on an attorney's own list
type ReminderInput struct {
	Text  string     `json:"text"`
	DueAt *time.Time `json:"due_at,omitempty"`
}

func (in ReminderInput) clean() (string, error) {
	text := SanitizeText(in.Text)
	if text == "" {
		return "", invalidf("reminder text is required")
	}
	return text, nil
}

// AddFileReminder appends a reminder to a file
func (s *RegistryService) AddFileReminder(ctx context.Context, fileNumber, createdBy string, in ReminderInput) (*models.Reminder, error) {
	text, err := in.clean()
	if err != nil {
		return nil, err
	}
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	reminder := models.Reminder{
		ID:        s.newID(),
		Text:      text,
		DueAt:     in.DueAt,
		CreatedBy: strings.TrimSpace(createdBy),
		CreatedAt: s.now(),
	}
	if err := s.Store.AppendToArrayField(ctx, file.ID, FieldReminders, reminder); err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditActionReminder, file.FileNumber, fmt.Sprintf("Reminder added: %s", text))
	return &reminder, nil
}

// CompleteFileReminder marks a file reminder as done or not done
func (s *RegistryService) CompleteFileReminder(ctx context.Context, fileNumber, reminderID string, done bool) (*models.Reminder, error) {
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	reminders := append(models.JSONList[models.Reminder]{}, file.Reminders...)
	for i := range reminders {
		if reminders[i].ID != reminderID {
			continue
		}
		reminders[i].Done = done
		if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{"reminders": reminders}); err != nil {
			return nil, err
		}
		s.audit(ctx, models.AuditActionReminder, file.FileNumber,
			fmt.Sprintf("Reminder %s marked done=%t", reminderID, done))
		return &reminders[i], nil
	}
	return nil, notFoundf("reminder %s not found on file %s", reminderID, file.FileNumber)
}

// DeleteFileReminder removes a reminder from a file
func (s *RegistryService) DeleteFileReminder(ctx context.Context, fileNumber, reminderID string) error {
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return err
	}

	kept := make(models.JSONList[models.Reminder], 0, len(file.Reminders))
	for _, r := range file.Reminders {
		if r.ID != reminderID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(file.Reminders) {
		return notFoundf("reminder %s not found on file %s", reminderID, file.FileNumber)
	}
	if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{"reminders": kept}); err != nil {
		return err
	}

	s.audit(ctx, models.AuditActionReminder, file.FileNumber, fmt.Sprintf("Reminder %s deleted", reminderID))
	return nil
}

// CreateGeneralReminder adds a reminder to an attorney's own list
func (s *RegistryService) CreateGeneralReminder(ctx context.Context, owner Viewer, in ReminderInput) (*models.GeneralReminder, error) {
	if owner.ID == "" {
		return nil, invalidf("reminder owner is required")
	}
	text, err := in.clean()
	if err != nil {
		return nil, err
	}

	reminder := &models.GeneralReminder{
		ID:        s.newID(),
		OwnerID:   owner.ID,
		OwnerName: owner.FullName,
		Text:      text,
		DueAt:     in.DueAt,
	}
	if err := s.Store.SetReminder(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// ListGeneralReminders returns an attorney's reminders, soonest first
func (s *RegistryService) ListGeneralReminders(ctx context.Context, ownerID string) ([]models.GeneralReminder, error) {
	if ownerID == "" {
		return nil, invalidf("reminder owner is required")
	}
	return s.Store.ListReminders(ctx, ownerID)
}

// DeleteGeneralReminder removes a reminder from an attorney's list.
// Reminders owned by someone else are reported as not found.
func (s *RegistryService) DeleteGeneralReminder(ctx context.Context, ownerID, id string) error {
	reminders, err := s.ListGeneralReminders(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, r := range reminders {
		if r.ID == id {
			return s.Store.DeleteReminder(ctx, id)
		}
	}
	return notFoundf("reminder %s not found", id)
}
