package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"case_registry_go/models"
)

// LetterInput is a new correspondence item entered into the unassigned pool
type LetterInput struct {
	Date           time.Time  `json:"date"`
	Type           string     `json:"type"`
	Subject        string     `json:"subject"`
	Correspondent  string     `json:"correspondent"`
	DocumentNumber string     `json:"document_number"`
	Remarks        string     `json:"remarks"`
	HearingDate    *time.Time `json:"hearing_date,omitempty"`
	ProcessType    string     `json:"process_type"`
	ScanLink       string     `json:"scan_link"`
}

// LetterPatch carries editable letter fields; nil means unchanged
type LetterPatch struct {
	Date           *time.Time `json:"date,omitempty"`
	Type           *string    `json:"type,omitempty"`
	Subject        *string    `json:"subject,omitempty"`
	Correspondent  *string    `json:"correspondent,omitempty"`
	DocumentNumber *string    `json:"document_number,omitempty"`
	Remarks        *string    `json:"remarks,omitempty"`
	HearingDate    *time.Time `json:"hearing_date,omitempty"`
	ProcessType    *string    `json:"process_type,omitempty"`
	ScanLink       *string    `json:"scan_link,omitempty"`
}

func applyLetterPatch(l models.Letter, p LetterPatch) (models.Letter, error) {
	if p.Type != nil {
		if !models.IsValidLetterType(*p.Type) {
			return l, invalidf("invalid letter type %q", *p.Type)
		}
		l.Type = *p.Type
	}
	if p.Date != nil {
		if p.Date.IsZero() {
			return l, invalidf("letter date cannot be empty")
		}
		l.Date = *p.Date
	}
	if p.Subject != nil {
		l.Subject = SanitizeText(*p.Subject)
	}
	if p.Correspondent != nil {
		l.Correspondent = SanitizeText(*p.Correspondent)
	}
	if p.DocumentNumber != nil {
		l.DocumentNumber = strings.TrimSpace(*p.DocumentNumber)
	}
	if p.Remarks != nil {
		l.Remarks = SanitizeText(*p.Remarks)
	}
	if p.HearingDate != nil {
		hearing := *p.HearingDate
		l.HearingDate = &hearing
	}
	if p.ProcessType != nil {
		l.ProcessType = strings.TrimSpace(*p.ProcessType)
	}
	if p.ScanLink != nil {
		l.ScanLink = strings.TrimSpace(*p.ScanLink)
	}
	return l, nil
}

// RecordUnassignedItem adds a new letter to the unassigned pool
func (s *RegistryService) RecordUnassignedItem(ctx context.Context, in LetterInput) (*models.Letter, error) {
	if !models.IsValidLetterType(in.Type) {
		return nil, invalidf("invalid letter type %q", in.Type)
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	item := &models.UnassignedLetter{Letter: models.Letter{
		ID:             s.newID(),
		Date:           date,
		Type:           in.Type,
		Subject:        SanitizeText(in.Subject),
		Correspondent:  SanitizeText(in.Correspondent),
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		Remarks:        SanitizeText(in.Remarks),
		HearingDate:    in.HearingDate,
		ProcessType:    strings.TrimSpace(in.ProcessType),
		ScanLink:       strings.TrimSpace(in.ScanLink),
	}}
	if err := s.Store.SetUnassignedItem(ctx, item); err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditActionLetterCreate, "", fmt.Sprintf("Recorded %s letter %s", item.Type, item.ID))
	letter := item.Letter
	return &letter, nil
}

// ListUnassignedItems returns the letters waiting to be attached to a file
func (s *RegistryService) ListUnassignedItems(ctx context.Context) ([]models.Letter, error) {
	items, err := s.Store.ListUnassignedItems(ctx)
	if err != nil {
		return nil, err
	}
	letters := make([]models.Letter, 0, len(items))
	for _, item := range items {
		letters = append(letters, item.Letter)
	}
	return letters, nil
}

// AttachLetter moves a letter from the unassigned pool onto a file, keeping its id.
// The pool delete and the file update are written as one batch.
func (s *RegistryService) AttachLetter(ctx context.Context, itemID, fileNumber string) (*models.CaseFile, error) {
	if itemID == "" {
		return nil, invalidf("letter id is required")
	}
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}
	item, err := s.Store.GetUnassignedItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	for _, l := range file.Letters {
		if l.ID == itemID {
			return nil, conflictf("letter %s is already attached to %s", itemID, file.FileNumber)
		}
	}

	now := s.now()
	letter := item.Letter
	letter.FileNumber = file.FileNumber
	letters := append(append(models.JSONList[models.Letter]{}, file.Letters...), letter)

	err = s.Store.BatchWrite(ctx, []WriteOp{
		UpdateFileOp(file, map[string]interface{}{
			"letters":          letters,
			"last_activity_at": now,
		}),
		DeleteUnassignedOp(itemID),
	})
	if err != nil {
		return nil, err
	}
	file.Letters = letters
	file.LastActivityAt = &now

	s.Metrics.IncrementLetterTransfer("attach")
	s.audit(ctx, models.AuditActionLetterAttach, file.FileNumber,
		fmt.Sprintf("Attached letter %s", itemID))
	return file, nil
}

// DetachLetter returns an attached letter to the unassigned pool, keeping its id
func (s *RegistryService) DetachLetter(ctx context.Context, fileNumber, itemID string) (*models.Letter, error) {
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}
	letter, remaining, err := takeLetter(file, itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	letter.FileNumber = ""
	item := &models.UnassignedLetter{Letter: letter}

	err = s.Store.BatchWrite(ctx, []WriteOp{
		SetUnassignedOp(item),
		UpdateFileOp(file, map[string]interface{}{
			"letters":          remaining,
			"last_activity_at": now,
		}),
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncrementLetterTransfer("detach")
	s.audit(ctx, models.AuditActionLetterDetach, file.FileNumber,
		fmt.Sprintf("Detached letter %s", itemID))
	return &letter, nil
}

// EditAttached merges patch into a letter on a file
func (s *RegistryService) EditAttached(ctx context.Context, fileNumber, itemID string, patch LetterPatch) (*models.Letter, error) {
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	letters := append(models.JSONList[models.Letter]{}, file.Letters...)
	idx := indexOfLetter(letters, itemID)
	if idx < 0 {
		return nil, notFoundf("letter %s not found on file %s", itemID, file.FileNumber)
	}
	updated, err := applyLetterPatch(letters[idx], patch)
	if err != nil {
		return nil, err
	}
	updated.FileNumber = file.FileNumber
	letters[idx] = updated

	if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{"letters": letters}); err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditActionLetterUpdate, file.FileNumber, fmt.Sprintf("Edited letter %s", itemID))
	return &updated, nil
}

// EditUnassigned merges patch into a letter in the unassigned pool
func (s *RegistryService) EditUnassigned(ctx context.Context, itemID string, patch LetterPatch) (*models.Letter, error) {
	item, err := s.Store.GetUnassignedItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	updated, err := applyLetterPatch(item.Letter, patch)
	if err != nil {
		return nil, err
	}
	item.Letter = updated
	if err := s.Store.SetUnassignedItem(ctx, item); err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditActionLetterUpdate, "", fmt.Sprintf("Edited unassigned letter %s", itemID))
	return &updated, nil
}

// DeleteAttached removes a letter from a file permanently
func (s *RegistryService) DeleteAttached(ctx context.Context, fileNumber, itemID string) error {
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return err
	}
	_, remaining, err := takeLetter(file, itemID)
	if err != nil {
		return err
	}
	if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{"letters": remaining}); err != nil {
		return err
	}

	s.audit(ctx, models.AuditActionLetterDelete, file.FileNumber, fmt.Sprintf("Deleted letter %s", itemID))
	return nil
}

// DeleteUnassigned removes a letter from the unassigned pool permanently
func (s *RegistryService) DeleteUnassigned(ctx context.Context, itemID string) error {
	if err := s.Store.DeleteUnassignedItem(ctx, itemID); err != nil {
		return err
	}
	s.audit(ctx, models.AuditActionLetterDelete, "", fmt.Sprintf("Deleted unassigned letter %s", itemID))
	return nil
}

// takeLetter splits a file's letters into the one with itemID and the rest
func takeLetter(file *models.CaseFile, itemID string) (models.Letter, models.JSONList[models.Letter], error) {
	idx := indexOfLetter(file.Letters, itemID)
	if idx < 0 {
		return models.Letter{}, nil, notFoundf("letter %s not found on file %s", itemID, file.FileNumber)
	}
	remaining := make(models.JSONList[models.Letter], 0, len(file.Letters)-1)
	remaining = append(remaining, file.Letters[:idx]...)
	remaining = append(remaining, file.Letters[idx+1:]...)
	return file.Letters[idx], remaining, nil
}

func indexOfLetter(letters []models.Letter, id string) int {
	for i, l := range letters {
		if l.ID == id {
			return i
		}
	}
	return -1
}
