package services

import (
	"context"
	"fmt"
	"strings"

	"case_registry_go/models"
)

// ProgressPercent is the share of completed milestones, rounded down; 0 for an empty list
func ProgressPercent(milestones []models.Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	done := 0
	for _, m := range milestones {
		if m.Done {
			done++
		}
	}
	return done * 100 / len(milestones)
}

// MilestoneProgress summarizes a file's checklist
type MilestoneProgress struct {
	Milestones []models.Milestone `json:"milestones"`
	Completed  int                `json:"completed"`
	Total      int                `json:"total"`
	Percent    int                `json:"percent"`
}

// ProgressOf derives the checklist summary for a file, using the default template when none is stored
func ProgressOf(file *models.CaseFile) MilestoneProgress {
	list := file.MilestoneList()
	done := 0
	for _, m := range list {
		if m.Done {
			done++
		}
	}
	return MilestoneProgress{
		Milestones: list,
		Completed:  done,
		Total:      len(list),
		Percent:    ProgressPercent(list),
	}
}

// SetMilestones replaces the whole checklist. Completion order is not enforced.
func (s *RegistryService) SetMilestones(ctx context.Context, fileNumber string, milestones []models.Milestone) (*models.CaseFile, error) {
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	list := make(models.JSONList[models.Milestone], 0, len(milestones))
	seen := make(map[string]bool, len(milestones))
	for _, m := range milestones {
		m.Title = strings.TrimSpace(m.Title)
		if m.Title == "" {
			return nil, invalidf("milestone title is required")
		}
		if m.ID == "" {
			m.ID = s.newID()
		}
		if seen[m.ID] {
			return nil, invalidf("duplicate milestone id %q", m.ID)
		}
		seen[m.ID] = true
		list = append(list, m)
	}

	now := s.now()
	if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{
		"milestones":       list,
		"last_activity_at": now,
	}); err != nil {
		return nil, err
	}
	file.Milestones = list
	file.LastActivityAt = &now

	s.audit(ctx, models.AuditActionMilestones, file.FileNumber,
		fmt.Sprintf("Milestones updated (%d%% complete)", ProgressPercent(list)))
	return file, nil
}
