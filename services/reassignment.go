package services

import (
	"fmt"
	"strings"
	"time"

	"case_registry_go/models"
)

// FilePatch carries the editable fields of a case file; nil means unchanged
type FilePatch struct {
	SuitNumber       *string    `json:"suit_number,omitempty"`
	Category         *string    `json:"category,omitempty"`
	Group            *string    `json:"group,omitempty"`
	Subject          *string    `json:"subject,omitempty"`
	ReportableDate   *time.Time `json:"reportable_date,omitempty"`
	AssignedTo       *string    `json:"assigned_to,omitempty"`
	CoAssignees      *[]string  `json:"co_assignees,omitempty"`
	Status           *string    `json:"status,omitempty"`
	HasMonetaryClaim *bool      `json:"has_monetary_claim,omitempty"`
	AmountClaimed    *float64   `json:"amount_claimed,omitempty"`
	AmountRecovered  *float64   `json:"amount_recovered,omitempty"`
}

// Validate rejects values the registry cannot store
func (p FilePatch) Validate() error {
	if p.Status != nil && !models.IsValidFileStatus(*p.Status) {
		return invalidf("invalid status %q", *p.Status)
	}
	if p.AssignedTo != nil && strings.TrimSpace(*p.AssignedTo) == "" {
		return invalidf("lead assignee cannot be blank")
	}
	if p.AmountClaimed != nil && *p.AmountClaimed < 0 {
		return invalidf("amount claimed cannot be negative")
	}
	if p.AmountRecovered != nil && *p.AmountRecovered < 0 {
		return invalidf("amount recovered cannot be negative")
	}
	if p.ReportableDate != nil && p.ReportableDate.IsZero() {
		return invalidf("reportable date cannot be empty")
	}
	return nil
}

// IsReassignment reports whether the patch changes the lead or the group.
// The comparison is on raw values, unlike custody matching.
func (p FilePatch) IsReassignment(file *models.CaseFile) bool {
	if p.AssignedTo != nil && *p.AssignedTo != file.AssignedTo {
		return true
	}
	return p.Group != nil && *p.Group != file.Group
}

// ApplyReassignment merges patch into a copy of file. When the lead or group
// changes it appends one movement to the (new) lead and drops that lead's
// pending requests. The second return value reports whether that happened.
func ApplyReassignment(file models.CaseFile, patch FilePatch, now time.Time, movementID string) (models.CaseFile, bool) {
	triggered := patch.IsReassignment(&file)
	updated := mergeFilePatch(file, patch, now)
	if !triggered {
		return updated, false
	}

	lead := updated.AssignedTo
	movedTo := lead
	if strings.TrimSpace(movedTo) == "" {
		movedTo = models.RegistryName
	}

	movements := make(models.JSONList[models.Movement], 0, len(file.Movements)+1)
	movements = append(movements, file.Movements...)
	movements = append(movements, models.Movement{
		ID:      movementID,
		Date:    now,
		MovedTo: movedTo,
		Status:  reassignmentNote(updated.Group),
	})
	updated.Movements = movements
	updated.FileRequests = dropRequestsFor(file.FileRequests, lead)
	return updated, true
}

func reassignmentNote(group string) string {
	if strings.TrimSpace(group) == "" {
		return "Reassigned"
	}
	return fmt.Sprintf("Reassigned to %s group", group)
}

// mergeFilePatch copies non-nil patch fields onto file. Entering Completed stamps
// the completion time; leaving it clears the stamp.
func mergeFilePatch(file models.CaseFile, p FilePatch, now time.Time) models.CaseFile {
	if p.SuitNumber != nil {
		file.SuitNumber = strings.TrimSpace(*p.SuitNumber)
	}
	if p.Category != nil {
		file.Category = strings.TrimSpace(*p.Category)
	}
	if p.Group != nil {
		file.Group = *p.Group
	}
	if p.Subject != nil {
		file.Subject = SanitizeText(*p.Subject)
	}
	if p.ReportableDate != nil {
		file.ReportableDate = *p.ReportableDate
	}
	if p.AssignedTo != nil {
		file.AssignedTo = *p.AssignedTo
	}
	if p.CoAssignees != nil {
		file.CoAssignees = cleanNames(*p.CoAssignees)
	}
	if p.HasMonetaryClaim != nil {
		file.HasMonetaryClaim = *p.HasMonetaryClaim
	}
	if p.AmountClaimed != nil {
		file.AmountClaimed = *p.AmountClaimed
	}
	if p.AmountRecovered != nil {
		file.AmountRecovered = *p.AmountRecovered
	}
	if p.Status != nil && *p.Status != file.Status {
		file.Status = *p.Status
		if file.Status == models.FileStatusCompleted {
			completedAt := now
			file.CompletedAt = &completedAt
		} else {
			file.CompletedAt = nil
		}
	}
	return file
}

// cleanNames trims names and removes blanks and case-insensitive duplicates, keeping order
func cleanNames(names []string) models.JSONList[string] {
	seen := make(map[string]bool, len(names))
	out := make(models.JSONList[string], 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := models.NormalizeName(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// dropRequestsFor removes pending requests made by the named attorney
func dropRequestsFor(requests []models.FileRequest, name string) models.JSONList[models.FileRequest] {
	kept := make(models.JSONList[models.FileRequest], 0, len(requests))
	for _, r := range requests {
		if models.NamesMatch(r.RequesterName, name) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
