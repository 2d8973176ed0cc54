package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"case_registry_go/models"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Custody Register"

var registerHeaders = []string{
	"File Number", "Suit Number", "Subject", "Group", "Lead", "Status",
	"Custodian", "In Transit", "Transit Days", "Progress %", "Last Activity",
}

// BuildCustodyRegister writes one row per file with its derived custody and progress
func BuildCustodyRegister(files []models.CaseFile, now time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", registerSheet)
	for i, h := range registerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(registerSheet, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(registerHeaders), 1)
	f.SetCellStyle(registerSheet, "A1", lastHeader, headerStyle)

	for i := range files {
		file := &files[i]
		custody := ResolveCustody(file.Movements, now)
		inTransit := "No"
		if custody.InTransit {
			inTransit = "Yes"
		}
		row := []interface{}{
			file.FileNumber,
			file.SuitNumber,
			file.Subject,
			file.Group,
			file.AssignedTo,
			file.Status,
			custody.Custodian.Name(),
			inTransit,
			custody.TransitDays,
			ProgressPercent(file.MilestoneList()),
			file.ActivityReference().Format("2006-01-02"),
		}
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(registerSheet, start, &row); err != nil {
			return nil, fmt.Errorf("failed to write register row for %s: %w", file.FileNumber, err)
		}
	}
	f.SetColWidth(registerSheet, "A", "A", 18)
	f.SetColWidth(registerSheet, "C", "C", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// CustodyRegister builds the workbook for every file in the registry
func (s *RegistryService) CustodyRegister(ctx context.Context) (*bytes.Buffer, error) {
	files, err := s.Store.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCustodyRegister(files, s.now())
}

// ImportResult summarizes a spreadsheet import of paper files
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	Created        []string `json:"created"`
	Errors         []string `json:"errors"`
}

// ImportFiles creates case files from the first sheet of an xlsx workbook.
// Columns: file number, suit number, category, group, subject, lead,
// co-assignees (semicolon separated), opened date (YYYY-MM-DD).
// Rows that fail are reported and skipped; the rest are created.
func (s *RegistryService) ImportFiles(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, invalidf("failed to open excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, invalidf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, invalidf("failed to read sheet %s: %v", sheets[0], err)
	}

	result := &ImportResult{Created: []string{}, Errors: []string{}}
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		result.TotalProcessed++

		in, err := importRow(row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", i+1, MessageOf(err)))
			continue
		}
		file, err := s.CreateFile(ctx, in)
		if err != nil {
			if KindOf(err) == ErrStoreUnavailable {
				return result, err
			}
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", i+1, MessageOf(err)))
			continue
		}
		result.Created = append(result.Created, file.FileNumber)
	}
	return result, nil
}

func importRow(row []string) (CreateFileInput, error) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	in := CreateFileInput{
		FileNumber: col(0),
		SuitNumber: col(1),
		Category:   col(2),
		Group:      col(3),
		Subject:    col(4),
		AssignedTo: col(5),
	}
	if co := col(6); co != "" {
		in.CoAssignees = strings.Split(co, ";")
	}
	if opened := col(7); opened != "" {
		date, err := ParseDate(opened)
		if err != nil {
			return in, invalidf("invalid opened date %q", opened)
		}
		in.CreatedAt = &date
	}
	return in, nil
}
