package services

import (
	"context"
	"strings"

	"case_registry_go/models"
)

// BackfillFile brings a file migrated from paper or an older export into the
// current shape: missing ids on sub-records, the registry spelled one way,
// default milestones, and a reportable date. It reports whether anything changed.
func BackfillFile(file *models.CaseFile) (map[string]interface{}, bool) {
	patch := map[string]interface{}{}

	movements := make(models.JSONList[models.Movement], len(file.Movements))
	ledgerChanged := false
	for i, m := range file.Movements {
		if m.ID == "" {
			m.ID = NewTimeOrderedID()
			ledgerChanged = true
		}
		if m.IsToRegistry() && m.MovedTo != models.RegistryName {
			m.MovedTo = models.RegistryName
			ledgerChanged = true
		}
		movements[i] = m
	}
	if ledgerChanged {
		patch["movements"] = movements
	}

	letters := make(models.JSONList[models.Letter], len(file.Letters))
	lettersChanged := false
	for i, l := range file.Letters {
		if l.ID == "" {
			l.ID = NewTimeOrderedID()
			lettersChanged = true
		}
		if l.FileNumber != file.FileNumber {
			l.FileNumber = file.FileNumber
			lettersChanged = true
		}
		letters[i] = l
	}
	if lettersChanged {
		patch["letters"] = letters
	}

	requests := make(models.JSONList[models.FileRequest], len(file.FileRequests))
	requestsChanged := false
	for i, r := range file.FileRequests {
		if r.ID == "" {
			r.ID = NewTimeOrderedID()
			requestsChanged = true
		}
		requests[i] = r
	}
	if requestsChanged {
		patch["file_requests"] = requests
	}

	if file.Milestones == nil {
		patch["milestones"] = models.JSONList[models.Milestone](models.DefaultMilestones())
	}
	if file.ReportableDate.IsZero() && !file.CreatedAt.IsZero() {
		patch["reportable_date"] = file.CreatedAt
	}
	if strings.TrimSpace(file.Status) == "" {
		patch["status"] = models.FileStatusActive
	}
	return patch, len(patch) > 0
}

// BackfillFiles applies BackfillFile to every stored file in one batch and
// returns the file numbers that changed.
func (s *RegistryService) BackfillFiles(ctx context.Context) ([]string, error) {
	files, err := s.Store.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	changed := []string{}
	ops := []WriteOp{}
	for i := range files {
		patch, ok := BackfillFile(&files[i])
		if !ok {
			continue
		}
		ops = append(ops, UpdateFileOp(&files[i], patch))
		changed = append(changed, files[i].FileNumber)
	}
	if err := s.Store.BatchWrite(ctx, ops); err != nil {
		return nil, err
	}
	return changed, nil
}
