package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"case_registry_go/models"
)

// CreateFileInput carries the fields accepted when opening a new case file
type CreateFileInput struct {
	FileNumber       string     `json:"file_number"`
	SuitNumber       string     `json:"suit_number"`
	Category         string     `json:"category"`
	Group            string     `json:"group"`
	Subject          string     `json:"subject"`
	CreatedAt        *time.Time `json:"created_at,omitempty"` // for files migrated from paper records
	ReportableDate   *time.Time `json:"reportable_date,omitempty"`
	AssignedTo       string     `json:"assigned_to"`
	CoAssignees      []string   `json:"co_assignees"`
	HasMonetaryClaim bool       `json:"has_monetary_claim"`
	AmountClaimed    float64    `json:"amount_claimed"`
	AmountRecovered  float64    `json:"amount_recovered"`
}

// CreateFile opens a new Active case file with the default milestone template and empty ledgers
func (s *RegistryService) CreateFile(ctx context.Context, in CreateFileInput) (*models.CaseFile, error) {
	fileNumber := strings.TrimSpace(in.FileNumber)
	if fileNumber == "" {
		return nil, invalidf("file number is required")
	}
	if in.AmountClaimed < 0 || in.AmountRecovered < 0 {
		return nil, invalidf("amounts cannot be negative")
	}

	now := s.now()
	createdAt := now
	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		createdAt = *in.CreatedAt
	}
	reportable := createdAt
	if in.ReportableDate != nil && !in.ReportableDate.IsZero() {
		reportable = *in.ReportableDate
	}

	file := &models.CaseFile{
		ID:               s.newID(),
		CreatedAt:        createdAt,
		FileNumber:       fileNumber,
		SuitNumber:       strings.TrimSpace(in.SuitNumber),
		Category:         strings.TrimSpace(in.Category),
		Group:            strings.TrimSpace(in.Group),
		Subject:          SanitizeText(in.Subject),
		ReportableDate:   reportable,
		AssignedTo:       strings.TrimSpace(in.AssignedTo),
		CoAssignees:      cleanNames(in.CoAssignees),
		Status:           models.FileStatusActive,
		LastActivityAt:   &now,
		HasMonetaryClaim: in.HasMonetaryClaim,
		AmountClaimed:    in.AmountClaimed,
		AmountRecovered:  in.AmountRecovered,
		LastViewed:       models.JSONMap[time.Time]{},
		Pinned:           models.JSONMap[bool]{},
		Movements:        models.JSONList[models.Movement]{},
		Letters:          models.JSONList[models.Letter]{},
		Reminders:        models.JSONList[models.Reminder]{},
		Milestones:       models.DefaultMilestones(),
		FileRequests:     models.JSONList[models.FileRequest]{},
	}

	if err := s.Store.CreateFile(ctx, file); err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditActionFileCreate, file.FileNumber, fmt.Sprintf("Opened file %s", file.FileNumber))
	return file, nil
}

// GetFile retrieves a case file by file number
func (s *RegistryService) GetFile(ctx context.Context, fileNumber string) (*models.CaseFile, error) {
	return s.loadFile(ctx, strings.TrimSpace(fileNumber))
}

// ListFiles retrieves every case file
func (s *RegistryService) ListFiles(ctx context.Context) ([]models.CaseFile, error) {
	return s.Store.ListFiles(ctx)
}

// UpdateFile merges patch into the file, applying reassignment side effects
// when the lead or group changes.
func (s *RegistryService) UpdateFile(ctx context.Context, fileNumber string, patch FilePatch) (*models.CaseFile, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, reassigned := ApplyReassignment(*file, patch, now, s.newID())
	updated.LastActivityAt = &now

	if err := s.Store.UpdateFile(ctx, file.ID, fileColumns(&updated)); err != nil {
		return nil, err
	}

	if reassigned {
		s.Metrics.IncrementMovements(1)
		s.audit(ctx, models.AuditActionReassign, updated.FileNumber,
			fmt.Sprintf("Reassigned to %s (group %s)", updated.AssignedTo, updated.Group))
	} else {
		s.audit(ctx, models.AuditActionFileUpdate, updated.FileNumber, "Updated file details")
	}
	return &updated, nil
}

// BumpReportableDate moves the date used for periodic reporting, independent of creation date
func (s *RegistryService) BumpReportableDate(ctx context.Context, fileNumber string, date time.Time) (*models.CaseFile, error) {
	if date.IsZero() {
		return nil, invalidf("reportable date is required")
	}
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{"reportable_date": date}); err != nil {
		return nil, err
	}
	file.ReportableDate = date

	s.audit(ctx, models.AuditActionReportableDate, file.FileNumber,
		fmt.Sprintf("Reportable date set to %s", date.Format("2006-01-02")))
	return file, nil
}

// SetPinned records the viewer's personal pin on a file
func (s *RegistryService) SetPinned(ctx context.Context, fileNumber, viewerID string, pinned bool) (*models.CaseFile, error) {
	if viewerID == "" {
		return nil, invalidf("viewer is required")
	}
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	pins := models.JSONMap[bool]{}
	for k, v := range file.Pinned {
		pins[k] = v
	}
	if pinned {
		pins[viewerID] = true
	} else {
		delete(pins, viewerID)
	}

	if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{"pinned": pins}); err != nil {
		return nil, err
	}
	file.Pinned = pins
	return file, nil
}

// MarkViewed stamps the time the viewer last opened the file
func (s *RegistryService) MarkViewed(ctx context.Context, fileNumber, viewerID string) (*models.CaseFile, error) {
	if viewerID == "" {
		return nil, invalidf("viewer is required")
	}
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	viewed := models.JSONMap[time.Time]{}
	for k, v := range file.LastViewed {
		viewed[k] = v
	}
	viewed[viewerID] = s.now()

	if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{"last_viewed": viewed}); err != nil {
		return nil, err
	}
	file.LastViewed = viewed
	return file, nil
}
