package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"case_registry_go/models"
)

// BatchMoveInput describes one movement applied to many files
type BatchMoveInput struct {
	FileNumbers []string  `json:"file_numbers"`
	Date        time.Time `json:"date"`
	MovedTo     string    `json:"moved_to"`
	Status      string    `json:"status"`
	Group       *string   `json:"group,omitempty"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
}

// BatchResult lists the files a batch touched and the ones it skipped because they do not exist
type BatchResult struct {
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
}

// CustodianPickup groups the files collected from one custodian
type CustodianPickup struct {
	Custodian string    `json:"custodian"`
	Files     []FileRef `json:"files"`
}

// PickupSummary is the result of a batch pickup
type PickupSummary struct {
	Custodians []CustodianPickup `json:"custodians"`
	Collected  []string          `json:"collected"`
	Skipped    []string          `json:"skipped"`
}

// uniqueFileNumbers trims, drops blanks and duplicates, keeping first-seen order
func uniqueFileNumbers(fileNumbers []string) []string {
	seen := make(map[string]bool, len(fileNumbers))
	out := make([]string, 0, len(fileNumbers))
	for _, n := range fileNumbers {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func (s *RegistryService) checkBatch(fileNumbers []string) ([]string, error) {
	numbers := uniqueFileNumbers(fileNumbers)
	if len(numbers) == 0 {
		return nil, invalidf("at least one file number is required")
	}
	if s.MaxBatchSize > 0 && len(numbers) > s.MaxBatchSize {
		return nil, invalidf("batch of %d files exceeds the limit of %d", len(numbers), s.MaxBatchSize)
	}
	return numbers, nil
}

// loadBatch fetches every named file. Missing files are reported, not treated as errors.
func (s *RegistryService) loadBatch(ctx context.Context, numbers []string) ([]*models.CaseFile, []string, error) {
	files := make([]*models.CaseFile, 0, len(numbers))
	skipped := []string{}
	for _, n := range numbers {
		file, err := s.Store.GetFile(ctx, n)
		if err != nil {
			if KindOf(err) == ErrNotFound {
				skipped = append(skipped, n)
				continue
			}
			return nil, nil, err
		}
		files = append(files, file)
	}
	return files, skipped, nil
}

// BatchMove appends the same movement to every named file in a single batch write.
// Group and lead are overwritten uniformly when given.
func (s *RegistryService) BatchMove(ctx context.Context, in BatchMoveInput) (*BatchResult, error) {
	if strings.TrimSpace(in.MovedTo) == "" {
		return nil, invalidf("destination is required")
	}
	if in.AssignedTo != nil && strings.TrimSpace(*in.AssignedTo) == "" {
		return nil, invalidf("lead assignee cannot be blank")
	}
	numbers, err := s.checkBatch(in.FileNumbers)
	if err != nil {
		return nil, err
	}
	files, skipped, err := s.loadBatch(ctx, numbers)
	if err != nil {
		return nil, err
	}

	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	movedTo := WithCustodian(in.MovedTo).Name()
	note := SanitizeText(in.Status)

	ops := make([]WriteOp, 0, len(files))
	updated := make([]string, 0, len(files))
	for _, file := range files {
		movements := append(append(models.JSONList[models.Movement]{}, file.Movements...), models.Movement{
			ID:      s.newID(),
			Date:    date,
			MovedTo: movedTo,
			Status:  note,
		})
		patch := map[string]interface{}{
			"movements":        movements,
			"file_requests":    dropRequestsFor(file.FileRequests, movedTo),
			"last_activity_at": now,
		}
		if in.Group != nil {
			patch["group_name"] = strings.TrimSpace(*in.Group)
		}
		if in.AssignedTo != nil {
			patch["assigned_to"] = strings.TrimSpace(*in.AssignedTo)
		}
		ops = append(ops, UpdateFileOp(file, patch))
		updated = append(updated, file.FileNumber)
	}

	if err := s.Store.BatchWrite(ctx, ops); err != nil {
		return nil, err
	}

	s.Metrics.IncrementMovements(len(updated))
	s.Metrics.ObserveBatch("move", len(updated), len(skipped))
	s.audit(ctx, models.AuditActionBatchMove, "",
		fmt.Sprintf("Moved %d file(s) to %s: %s", len(updated), movedTo, strings.Join(updated, ", ")))
	return &BatchResult{Updated: updated, Skipped: skipped}, nil
}

// BatchPickup returns every named file to the registry with receipt already recorded,
// clears pending requests, and notifies each previous custodian once.
func (s *RegistryService) BatchPickup(ctx context.Context, fileNumbers []string, receivedBy string) (*PickupSummary, error) {
	receivedBy = strings.TrimSpace(receivedBy)
	if receivedBy == "" {
		return nil, invalidf("received by is required")
	}
	numbers, err := s.checkBatch(fileNumbers)
	if err != nil {
		return nil, err
	}
	files, skipped, err := s.loadBatch(ctx, numbers)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &PickupSummary{
		Custodians: []CustodianPickup{},
		Collected:  make([]string, 0, len(files)),
		Skipped:    skipped,
	}
	buckets := make(map[string]int)

	ops := make([]WriteOp, 0, len(files))
	for _, file := range files {
		custody := ResolveCustody(file.Movements, now).Custodian
		if !custody.IsRegistry() {
			key := models.NormalizeName(custody.Name())
			idx, ok := buckets[key]
			if !ok {
				idx = len(summary.Custodians)
				buckets[key] = idx
				summary.Custodians = append(summary.Custodians, CustodianPickup{Custodian: custody.Name()})
			}
			summary.Custodians[idx].Files = append(summary.Custodians[idx].Files, fileRefOf(file))
		}

		receivedAt := now
		movements := append(append(models.JSONList[models.Movement]{}, file.Movements...), models.Movement{
			ID:         s.newID(),
			Date:       now,
			MovedTo:    models.RegistryName,
			Status:     "Collected by registry",
			ReceivedAt: &receivedAt,
			ReceivedBy: receivedBy,
		})
		ops = append(ops, UpdateFileOp(file, map[string]interface{}{
			"movements":        movements,
			"file_requests":    models.JSONList[models.FileRequest]{},
			"last_activity_at": now,
		}))
		summary.Collected = append(summary.Collected, file.FileNumber)
	}

	if err := s.Store.BatchWrite(ctx, ops); err != nil {
		return nil, err
	}

	notices := make([]CustodianNotice, 0, len(summary.Custodians))
	for _, c := range summary.Custodians {
		notices = append(notices, CustodianNotice{
			Custodian: c.Custodian,
			Type:      models.NotificationTypeFilesCollected,
			Files:     c.Files,
		})
	}
	s.notify(ctx, notices)

	s.Metrics.IncrementMovements(len(summary.Collected))
	s.Metrics.ObserveBatch("pickup", len(summary.Collected), len(skipped))
	s.audit(ctx, models.AuditActionBatchPickup, "",
		fmt.Sprintf("Collected %d file(s) from %d custodian(s)", len(summary.Collected), len(summary.Custodians)))
	return summary, nil
}
