package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"case_registry_go/models"

	"gorm.io/gorm"
)

// AttorneyDirectory is the lookup of attorneys that can view, hold or lead files
type AttorneyDirectory struct {
	DB *gorm.DB
}

func NewAttorneyDirectory(db *gorm.DB) *AttorneyDirectory {
	return &AttorneyDirectory{DB: db}
}

// Get retrieves an active attorney by id
func (d *AttorneyDirectory) Get(ctx context.Context, id string) (*models.Attorney, error) {
	if id == "" {
		return nil, invalidf("attorney id is required")
	}
	var attorney models.Attorney
	err := d.DB.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&attorney).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("attorney %s not found", id)
		}
		return nil, storeUnavailable("get attorney", err)
	}
	return &attorney, nil
}

// FindByName looks an attorney up by name, ignoring case and surrounding space
func (d *AttorneyDirectory) FindByName(ctx context.Context, name string) (*models.Attorney, error) {
	key := models.NormalizeName(name)
	if key == "" {
		return nil, invalidf("attorney name is required")
	}
	var attorney models.Attorney
	err := d.DB.WithContext(ctx).Where("LOWER(TRIM(full_name)) = ?", key).First(&attorney).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("attorney %s not found", strings.TrimSpace(name))
		}
		return nil, storeUnavailable("find attorney", err)
	}
	return &attorney, nil
}

// List returns active attorneys ordered by name, optionally limited to one group
func (d *AttorneyDirectory) List(ctx context.Context, group string) ([]models.Attorney, error) {
	query := d.DB.WithContext(ctx).Where("is_active = ?", true)
	if group != "" {
		query = query.Where("group_name = ?", group)
	}
	var attorneys []models.Attorney
	if err := query.Order("full_name ASC").Find(&attorneys).Error; err != nil {
		return nil, storeUnavailable("list attorneys", err)
	}
	return attorneys, nil
}

// Create registers an attorney. Names must be unique ignoring case.
func (d *AttorneyDirectory) Create(ctx context.Context, attorney *models.Attorney) error {
	attorney.FullName = strings.TrimSpace(attorney.FullName)
	if attorney.FullName == "" {
		return invalidf("attorney name is required")
	}
	if _, err := d.FindByName(ctx, attorney.FullName); err == nil {
		return conflictf("attorney %s already exists", attorney.FullName)
	} else if KindOf(err) != ErrNotFound {
		return err
	}

	attorney.IsActive = true
	if err := d.DB.WithContext(ctx).Create(attorney).Error; err != nil {
		return storeUnavailable("create attorney", err)
	}
	return nil
}

// ViewerFor resolves the caseload viewer for an attorney id
func (d *AttorneyDirectory) ViewerFor(ctx context.Context, id string) (Viewer, error) {
	attorney, err := d.Get(ctx, id)
	if err != nil {
		return Viewer{}, err
	}
	return ViewerOf(attorney), nil
}

// ViewerOf maps an attorney to the partitioner's viewer
func ViewerOf(a *models.Attorney) Viewer {
	return Viewer{
		ID:          a.ID,
		FullName:    a.FullName,
		Group:       a.Group,
		IsGroupHead: a.IsGroupHead,
		IsExecutive: a.IsSG,
	}
}

// RenameResult reports which files a rename touched
type RenameResult struct {
	FilesUpdated []string `json:"files_updated"`
}

// RenameAttorney replaces oldName with newName everywhere files refer to the attorney
// (lead, co-assignees, ledger destinations and receipts, requests). The directory
// entry is renamed in the same batch, so a name already taken by another attorney
// rejects the rename before any file changes.
func (s *RegistryService) RenameAttorney(ctx context.Context, oldName, newName string) (*RenameResult, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return nil, invalidf("both the current and the new name are required")
	}
	if oldName == newName {
		return &RenameResult{FilesUpdated: []string{}}, nil
	}

	var attorney *models.Attorney
	if s.Attorneys != nil {
		found, err := s.Attorneys.FindByName(ctx, oldName)
		switch {
		case err == nil:
			attorney = found
		case KindOf(err) != ErrNotFound:
			return nil, err
		}
		taken, err := s.Attorneys.FindByName(ctx, newName)
		switch {
		case err == nil:
			if attorney == nil || taken.ID != attorney.ID {
				return nil, conflictf("attorney %s already exists", newName)
			}
		case KindOf(err) != ErrNotFound:
			return nil, err
		}
	}

	files, err := s.Store.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	result := &RenameResult{FilesUpdated: []string{}}
	ops := []WriteOp{}
	for i := range files {
		patch, changed := renameInFile(&files[i], oldName, newName)
		if !changed {
			continue
		}
		ops = append(ops, UpdateFileOp(&files[i], patch))
		result.FilesUpdated = append(result.FilesUpdated, files[i].FileNumber)
	}
	if attorney != nil {
		ops = append(ops, RenameAttorneyOp(attorney.ID, newName))
	}
	if err := s.Store.BatchWrite(ctx, ops); err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditActionAttorneyRename, "",
		fmt.Sprintf("Renamed %s to %s on %d file(s)", oldName, newName, len(result.FilesUpdated)))
	return result, nil
}

// renameInFile builds the column patch that swaps oldName for newName in one file
func renameInFile(file *models.CaseFile, oldName, newName string) (map[string]interface{}, bool) {
	patch := map[string]interface{}{}
	swap := func(name string) (string, bool) {
		if models.NamesMatch(name, oldName) {
			return newName, true
		}
		return name, false
	}

	if name, ok := swap(file.AssignedTo); ok {
		patch["assigned_to"] = name
	}

	coAssignees := make(models.JSONList[string], len(file.CoAssignees))
	coChanged := false
	for i, n := range file.CoAssignees {
		var ok bool
		coAssignees[i], ok = swap(n)
		coChanged = coChanged || ok
	}
	if coChanged {
		patch["co_assignees"] = coAssignees
	}

	movements := make(models.JSONList[models.Movement], len(file.Movements))
	ledgerChanged := false
	for i, m := range file.Movements {
		var toOK, byOK bool
		m.MovedTo, toOK = swap(m.MovedTo)
		m.ReceivedBy, byOK = swap(m.ReceivedBy)
		movements[i] = m
		ledgerChanged = ledgerChanged || toOK || byOK
	}
	if ledgerChanged {
		patch["movements"] = movements
	}

	requests := make(models.JSONList[models.FileRequest], len(file.FileRequests))
	requestsChanged := false
	for i, r := range file.FileRequests {
		var ok bool
		r.RequesterName, ok = swap(r.RequesterName)
		requests[i] = r
		requestsChanged = requestsChanged || ok
	}
	if requestsChanged {
		patch["file_requests"] = requests
	}

	return patch, len(patch) > 0
}
