package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"case_registry_go/models"
)

const MaxScanSize = 10 * 1024 * 1024 // 10MB

var allowedScanTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ScanUpload is a scanned copy of a letter received from the client
type ScanUpload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// validateScan checks size and extension, then sniffs the first bytes to make
// sure the content matches the extension. It returns a reader that replays the
// sniffed bytes.
func validateScan(upload ScanUpload) (string, io.Reader, error) {
	if upload.Size > MaxScanSize {
		return "", nil, invalidf("scan exceeds the maximum size of 10MB")
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	contentType, ok := allowedScanTypes[ext]
	if !ok {
		return "", nil, invalidf("only PDF, PNG and JPEG scans are allowed")
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(upload.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, invalidf("failed to read scan content")
	}
	head = head[:n]

	sniffed := http.DetectContentType(head)
	if !strings.HasPrefix(sniffed, contentType) {
		return "", nil, invalidf("scan content does not match its %s extension", ext)
	}
	return contentType, io.MultiReader(bytes.NewReader(head), upload.Body), nil
}

// AttachScan stores a scan and links it to a letter in the unassigned pool,
// or to a letter on fileNumber when one is given.
func (s *RegistryService) AttachScan(ctx context.Context, fileNumber, itemID string, upload ScanUpload) (*models.Letter, error) {
	if s.Scans == nil {
		return nil, storeUnavailable("scan upload", fmt.Errorf("scan storage not configured"))
	}
	contentType, body, err := validateScan(upload)
	if err != nil {
		return nil, err
	}

	// Look the letter up before storing anything
	if fileNumber == "" {
		if _, err := s.Store.GetUnassignedItem(ctx, itemID); err != nil {
			return nil, err
		}
	} else {
		file, err := s.loadFile(ctx, fileNumber)
		if err != nil {
			return nil, err
		}
		if indexOfLetter(file.Letters, itemID) < 0 {
			return nil, notFoundf("letter %s not found on file %s", itemID, file.FileNumber)
		}
	}

	stored, err := s.Scans.Put(ctx, ScanKey(itemID, upload.Filename), body, contentType, upload.Size)
	if err != nil {
		return nil, storeUnavailable("scan upload", err)
	}
	link := stored.URL
	if link == "" {
		link = stored.Key
	}

	patch := LetterPatch{ScanLink: &link}
	var letter *models.Letter
	if fileNumber == "" {
		letter, err = s.EditUnassigned(ctx, itemID, patch)
	} else {
		letter, err = s.EditAttached(ctx, fileNumber, itemID, patch)
	}
	if err != nil {
		if delErr := s.Scans.Delete(ctx, stored.Key); delErr != nil {
			log.Printf("[WARNING] Failed to remove orphaned scan %s: %v", stored.Key, delErr)
		}
		return nil, err
	}

	s.audit(ctx, models.AuditActionScanAttached, fileNumber, fmt.Sprintf("Scan stored for letter %s", itemID))
	return letter, nil
}
