package services

import (
	"context"
	"errors"
	"strings"

	"case_registry_go/models"

	"gorm.io/gorm"
)

// Array fields of a case file that support atomic append
const (
	FieldMovements    = "movements"
	FieldLetters      = "letters"
	FieldReminders    = "reminders"
	FieldFileRequests = "file_requests"
)

// RecordStore is the persistence boundary for case files, the unassigned
// correspondence pool and general reminders.
type RecordStore interface {
	GetFile(ctx context.Context, fileNumber string) (*models.CaseFile, error)
	ListFiles(ctx context.Context) ([]models.CaseFile, error)
	CreateFile(ctx context.Context, file *models.CaseFile) error
	UpdateFile(ctx context.Context, id string, patch map[string]interface{}) error
	AppendToArrayField(ctx context.Context, id, field string, value interface{}) error
	BatchWrite(ctx context.Context, ops []WriteOp) error

	GetUnassignedItem(ctx context.Context, id string) (*models.UnassignedLetter, error)
	ListUnassignedItems(ctx context.Context) ([]models.UnassignedLetter, error)
	SetUnassignedItem(ctx context.Context, item *models.UnassignedLetter) error
	DeleteUnassignedItem(ctx context.Context, id string) error

	ListReminders(ctx context.Context, ownerID string) ([]models.GeneralReminder, error)
	SetReminder(ctx context.Context, reminder *models.GeneralReminder) error
	DeleteReminder(ctx context.Context, id string) error
}

// WriteOpKind selects what a batched write does
type WriteOpKind int

const (
	OpUpdateFile WriteOpKind = iota
	OpSetUnassigned
	OpDeleteUnassigned
	OpRenameAttorney
)

// WriteOp is one write inside an all-or-nothing batch
type WriteOp struct {
	Kind     WriteOpKind
	FileID   string
	Patch    map[string]interface{}
	Item     *models.UnassignedLetter
	ItemID   string
	NewName  string
	Describe string // file number or item id, used in error messages
}

// UpdateFileOp builds a batched field update for one case file
func UpdateFileOp(file *models.CaseFile, patch map[string]interface{}) WriteOp {
	return WriteOp{Kind: OpUpdateFile, FileID: file.ID, Patch: patch, Describe: file.FileNumber}
}

// SetUnassignedOp builds a batched upsert into the unassigned pool
func SetUnassignedOp(item *models.UnassignedLetter) WriteOp {
	return WriteOp{Kind: OpSetUnassigned, Item: item, Describe: item.ID}
}

// DeleteUnassignedOp builds a batched removal from the unassigned pool
func DeleteUnassignedOp(id string) WriteOp {
	return WriteOp{Kind: OpDeleteUnassigned, ItemID: id, Describe: id}
}

// RenameAttorneyOp builds a batched rename of one directory entry
func RenameAttorneyOp(id, newName string) WriteOp {
	return WriteOp{Kind: OpRenameAttorney, ItemID: id, NewName: newName, Describe: id}
}

// GormRecordStore implements RecordStore on top of gorm (SQLite or libsql)
type GormRecordStore struct {
	DB *gorm.DB
}

func NewGormRecordStore(db *gorm.DB) *GormRecordStore {
	return &GormRecordStore{DB: db}
}

// GetFile retrieves a case file by its business file number
func (s *GormRecordStore) GetFile(ctx context.Context, fileNumber string) (*models.CaseFile, error) {
	var file models.CaseFile
	err := s.DB.WithContext(ctx).Where("file_number = ?", fileNumber).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("case file %s not found", fileNumber)
		}
		return nil, storeUnavailable("get file", err)
	}
	return &file, nil
}

// ListFiles retrieves every case file, newest first
func (s *GormRecordStore) ListFiles(ctx context.Context) ([]models.CaseFile, error) {
	var files []models.CaseFile
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, storeUnavailable("list files", err)
	}
	return files, nil
}

// CreateFile inserts a new case file, rejecting duplicate file numbers
func (s *GormRecordStore) CreateFile(ctx context.Context, file *models.CaseFile) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.CaseFile{}).
		Where("file_number = ?", file.FileNumber).
		Count(&count).Error; err != nil {
		return storeUnavailable("check file number", err)
	}
	if count > 0 {
		return conflictf("case file %s already exists", file.FileNumber)
	}

	if err := s.DB.WithContext(ctx).Create(file).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflictf("case file %s already exists", file.FileNumber)
		}
		return storeUnavailable("create file", err)
	}
	return nil
}

// UpdateFile applies a column patch to one case file
func (s *GormRecordStore) UpdateFile(ctx context.Context, id string, patch map[string]interface{}) error {
	return s.updateFile(s.DB.WithContext(ctx), id, id, patch)
}

func (s *GormRecordStore) updateFile(tx *gorm.DB, id, describe string, patch map[string]interface{}) error {
	result := tx.Model(&models.CaseFile{}).Where("id = ?", id).Updates(patch)
	if result.Error != nil {
		return storeUnavailable("update file", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFoundf("case file %s not found", describe)
	}
	return nil
}

// AppendToArrayField appends one element to an embedded list inside a transaction
func (s *GormRecordStore) AppendToArrayField(ctx context.Context, id, field string, value interface{}) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var file models.CaseFile
		if err := tx.First(&file, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("case file %s not found", id)
			}
			return storeUnavailable("append to "+field, err)
		}

		list, err := appendToList(&file, field, value)
		if err != nil {
			return err
		}
		return s.updateFile(tx, id, file.FileNumber, map[string]interface{}{field: list})
	})
}

func appendToList(file *models.CaseFile, field string, value interface{}) (interface{}, error) {
	switch field {
	case FieldMovements:
		if v, ok := value.(models.Movement); ok {
			return append(file.Movements, v), nil
		}
	case FieldLetters:
		if v, ok := value.(models.Letter); ok {
			return append(file.Letters, v), nil
		}
	case FieldReminders:
		if v, ok := value.(models.Reminder); ok {
			return append(file.Reminders, v), nil
		}
	case FieldFileRequests:
		if v, ok := value.(models.FileRequest); ok {
			return append(file.FileRequests, v), nil
		}
	default:
		return nil, invalidf("field %q does not support append", field)
	}
	return nil, invalidf("value of type %T cannot be appended to %s", value, field)
}

// BatchWrite applies every op in one transaction; any failure rejects the whole batch
func (s *GormRecordStore) BatchWrite(ctx context.Context, ops []WriteOp) error {
	if len(ops) == 0 {
		return nil
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			var err error
			switch op.Kind {
			case OpUpdateFile:
				err = s.updateFile(tx, op.FileID, op.Describe, op.Patch)
			case OpSetUnassigned:
				if err = tx.Save(op.Item).Error; err != nil {
					err = storeUnavailable("save unassigned item", err)
				}
			case OpDeleteUnassigned:
				err = deleteUnassigned(tx, op.ItemID)
			case OpRenameAttorney:
				err = renameAttorney(tx, op.ItemID, op.NewName)
			default:
				err = invalidf("unknown batch operation %d", op.Kind)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && KindOf(err) == nil {
		return storeUnavailable("batch write", err)
	}
	return err
}

func renameAttorney(tx *gorm.DB, id, newName string) error {
	result := tx.Model(&models.Attorney{}).Where("id = ?", id).Update("full_name", strings.TrimSpace(newName))
	if result.Error != nil {
		return storeUnavailable("rename attorney", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFoundf("attorney %s not found", id)
	}
	return nil
}

// GetUnassignedItem retrieves a letter from the unassigned pool
func (s *GormRecordStore) GetUnassignedItem(ctx context.Context, id string) (*models.UnassignedLetter, error) {
	var item models.UnassignedLetter
	if err := s.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("unassigned item %s not found", id)
		}
		return nil, storeUnavailable("get unassigned item", err)
	}
	return &item, nil
}

// ListUnassignedItems retrieves the unassigned pool, most recent letter first
func (s *GormRecordStore) ListUnassignedItems(ctx context.Context) ([]models.UnassignedLetter, error) {
	var items []models.UnassignedLetter
	if err := s.DB.WithContext(ctx).Order("date DESC").Find(&items).Error; err != nil {
		return nil, storeUnavailable("list unassigned items", err)
	}
	return items, nil
}

// SetUnassignedItem inserts or replaces a pool item
func (s *GormRecordStore) SetUnassignedItem(ctx context.Context, item *models.UnassignedLetter) error {
	if err := s.DB.WithContext(ctx).Save(item).Error; err != nil {
		return storeUnavailable("save unassigned item", err)
	}
	return nil
}

// DeleteUnassignedItem removes a pool item permanently
func (s *GormRecordStore) DeleteUnassignedItem(ctx context.Context, id string) error {
	return deleteUnassigned(s.DB.WithContext(ctx), id)
}

func deleteUnassigned(tx *gorm.DB, id string) error {
	result := tx.Where("id = ?", id).Delete(&models.UnassignedLetter{})
	if result.Error != nil {
		return storeUnavailable("delete unassigned item", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFoundf("unassigned item %s not found", id)
	}
	return nil
}

// ListReminders retrieves general reminders for one owner (all owners when empty)
func (s *GormRecordStore) ListReminders(ctx context.Context, ownerID string) ([]models.GeneralReminder, error) {
	query := s.DB.WithContext(ctx).Model(&models.GeneralReminder{})
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	var reminders []models.GeneralReminder
	if err := query.Order("due_at ASC").Find(&reminders).Error; err != nil {
		return nil, storeUnavailable("list reminders", err)
	}
	return reminders, nil
}

// SetReminder inserts or replaces a general reminder
func (s *GormRecordStore) SetReminder(ctx context.Context, reminder *models.GeneralReminder) error {
	if err := s.DB.WithContext(ctx).Save(reminder).Error; err != nil {
		return storeUnavailable("save reminder", err)
	}
	return nil
}

// DeleteReminder removes a general reminder permanently
func (s *GormRecordStore) DeleteReminder(ctx context.Context, id string) error {
	result := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.GeneralReminder{})
	if result.Error != nil {
		return storeUnavailable("delete reminder", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFoundf("reminder %s not found", id)
	}
	return nil
}
