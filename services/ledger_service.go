package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"case_registry_go/models"
)

// MovementInput is a new custody transfer entered by the registry
type MovementInput struct {
	Date    time.Time `json:"date"`
	MovedTo string    `json:"moved_to"`
	Status  string    `json:"status"`
}

// RecordMovement appends a ledger entry and drops the destination's pending request, if any
func (s *RegistryService) RecordMovement(ctx context.Context, fileNumber string, in MovementInput) (*models.CaseFile, error) {
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	movement := models.Movement{
		ID:      s.newID(),
		Date:    date,
		MovedTo: WithCustodian(in.MovedTo).Name(),
		Status:  SanitizeText(in.Status),
	}

	movements := append(append(models.JSONList[models.Movement]{}, file.Movements...), movement)
	requests := dropRequestsFor(file.FileRequests, movement.MovedTo)
	patch := map[string]interface{}{
		"movements":        movements,
		"file_requests":    requests,
		"last_activity_at": now,
	}
	if err := s.Store.UpdateFile(ctx, file.ID, patch); err != nil {
		return nil, err
	}
	file.Movements = movements
	file.FileRequests = requests
	file.LastActivityAt = &now

	s.Metrics.IncrementMovements(1)
	s.audit(ctx, models.AuditActionMovement, file.FileNumber,
		fmt.Sprintf("Moved to %s", movement.MovedTo))
	return file, nil
}

// AcknowledgeMovement records receipt of a ledger entry and notifies the custodian
func (s *RegistryService) AcknowledgeMovement(ctx context.Context, fileNumber, movementID, receivedBy string) (*models.CaseFile, error) {
	receivedBy = strings.TrimSpace(receivedBy)
	if receivedBy == "" {
		return nil, invalidf("received by is required")
	}
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ledger, err := Acknowledge(file.Movements, movementID, receivedBy, now)
	if err != nil {
		return nil, err
	}

	movements := models.JSONList[models.Movement](ledger)
	if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{
		"movements":        movements,
		"last_activity_at": now,
	}); err != nil {
		return nil, err
	}
	file.Movements = movements
	file.LastActivityAt = &now

	custody := ResolveCustody(file.Movements, now).Custodian
	if !custody.IsRegistry() {
		s.notify(ctx, []CustodianNotice{{
			Custodian: custody.Name(),
			Type:      models.NotificationTypeCustodyReceived,
			Files:     []FileRef{fileRefOf(file)},
		}})
	}

	s.Metrics.IncrementAcknowledgments()
	s.audit(ctx, models.AuditActionAcknowledge, file.FileNumber,
		fmt.Sprintf("Receipt acknowledged by %s", receivedBy))
	return file, nil
}

// RequestFile queues a practitioner's request for the physical file.
// A second request from the same practitioner is a no-op.
func (s *RegistryService) RequestFile(ctx context.Context, fileNumber, requesterID, requesterName string) (*models.CaseFile, error) {
	requesterName = strings.TrimSpace(requesterName)
	if requesterName == "" {
		return nil, invalidf("requester is required")
	}
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	for _, r := range file.FileRequests {
		if models.NamesMatch(r.RequesterName, requesterName) {
			return file, nil
		}
	}

	request := models.FileRequest{
		ID:            s.newID(),
		RequesterID:   requesterID,
		RequesterName: requesterName,
		RequestedAt:   s.now(),
	}
	if err := s.Store.AppendToArrayField(ctx, file.ID, FieldFileRequests, request); err != nil {
		return nil, err
	}
	file.FileRequests = append(file.FileRequests, request)

	s.audit(ctx, models.AuditActionRequest, file.FileNumber,
		fmt.Sprintf("%s requested the physical file", requesterName))
	return file, nil
}

// CancelRequest withdraws a pending request
func (s *RegistryService) CancelRequest(ctx context.Context, fileNumber, requestID string) (*models.CaseFile, error) {
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	kept := make(models.JSONList[models.FileRequest], 0, len(file.FileRequests))
	var cancelled *models.FileRequest
	for i := range file.FileRequests {
		if file.FileRequests[i].ID == requestID {
			cancelled = &file.FileRequests[i]
			continue
		}
		kept = append(kept, file.FileRequests[i])
	}
	if cancelled == nil {
		return nil, notFoundf("request %s not found on file %s", requestID, file.FileNumber)
	}

	if err := s.Store.UpdateFile(ctx, file.ID, map[string]interface{}{"file_requests": kept}); err != nil {
		return nil, err
	}
	name := cancelled.RequesterName
	file.FileRequests = kept

	s.audit(ctx, models.AuditActionRequestCancel, file.FileNumber,
		fmt.Sprintf("Request by %s cancelled", name))
	return file, nil
}

// CustodyOf resolves the current custody of a file
func (s *RegistryService) CustodyOf(ctx context.Context, fileNumber string) (CustodyStatus, error) {
	file, err := s.loadFile(ctx, fileNumber)
	if err != nil {
		return CustodyStatus{}, err
	}
	return ResolveCustody(file.Movements, s.now()), nil
}
