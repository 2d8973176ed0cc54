package services

import (
	"context"
	"strings"
	"time"

	"case_registry_go/models"
)

// StagnationThreshold is the inactivity period after which an active file needs supervisory attention
const StagnationThreshold = 14 * 24 * time.Hour

// Viewer is the attorney a caseload is computed for
type Viewer struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Group       string `json:"group,omitempty"`
	IsGroupHead bool   `json:"is_group_head"`
	IsExecutive bool   `json:"is_executive"` // cross-group visibility
}

// Caseload is a viewer's disjoint classification of files.
// Executives only get All and Completed.
type Caseload struct {
	Pinned        []models.CaseFile `json:"pinned"`
	Primary       []models.CaseFile `json:"primary"`
	Collaborative []models.CaseFile `json:"collaborative"`
	Action        []models.CaseFile `json:"action"`
	Oversight     []models.CaseFile `json:"oversight"`
	Completed     []models.CaseFile `json:"completed"`
	Historical    []models.CaseFile `json:"historical"`
	All           []models.CaseFile `json:"all,omitempty"`
}

// Size is the number of files across the role buckets (historical excluded)
func (c *Caseload) Size() int {
	return len(c.Pinned) + len(c.Primary) + len(c.Collaborative) +
		len(c.Action) + len(c.Oversight) + len(c.Completed)
}

// MatchesQuery reports whether the file matches a free-text search over
// file number, subject, category, lead and co-assignees.
func MatchesQuery(file *models.CaseFile, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	fields := append([]string{file.FileNumber, file.Subject, file.Category, file.AssignedTo}, file.CoAssignees...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Partition classifies files for viewer. Each file lands in at most one of the
// role buckets; the first matching rule wins: completed, pinned, primary,
// collaborative, action, oversight. Files the viewer has no current link to
// but once held are historical.
func Partition(files []models.CaseFile, viewer Viewer, query string, now time.Time) *Caseload {
	c := &Caseload{
		Pinned:        []models.CaseFile{},
		Primary:       []models.CaseFile{},
		Collaborative: []models.CaseFile{},
		Action:        []models.CaseFile{},
		Oversight:     []models.CaseFile{},
		Completed:     []models.CaseFile{},
		Historical:    []models.CaseFile{},
	}
	if viewer.IsExecutive {
		c.All = []models.CaseFile{}
	}

	for i := range files {
		file := files[i]
		if !MatchesQuery(&file, query) {
			continue
		}

		if viewer.IsExecutive {
			c.All = append(c.All, file)
			if file.IsCompleted() {
				c.Completed = append(c.Completed, file)
			}
			continue
		}

		isLead := models.NamesMatch(file.AssignedTo, viewer.FullName)
		isCoAssignee := false
		for _, name := range file.CoAssignees {
			if models.NamesMatch(name, viewer.FullName) {
				isCoAssignee = true
				break
			}
		}
		isAtMyDesk := ResolveCustody(file.Movements, now).Custodian.HeldBy(viewer.FullName)
		canOversee := viewer.IsGroupHead && models.NamesMatch(file.Group, viewer.Group)

		if !isLead && !isCoAssignee && !isAtMyDesk && !canOversee {
			if HasHeld(file.Movements, viewer.FullName) {
				c.Historical = append(c.Historical, file)
			}
			continue
		}

		switch {
		case file.IsCompleted():
			c.Completed = append(c.Completed, file)
		case file.IsPinnedBy(viewer.ID):
			c.Pinned = append(c.Pinned, file)
		case isLead:
			c.Primary = append(c.Primary, file)
		case isCoAssignee:
			c.Collaborative = append(c.Collaborative, file)
		case isAtMyDesk:
			c.Action = append(c.Action, file)
		default:
			c.Oversight = append(c.Oversight, file)
		}
	}
	return c
}

// IsStagnant reports whether an active file has been idle for at least the threshold
func IsStagnant(file *models.CaseFile, now time.Time) bool {
	if file.IsCompleted() {
		return false
	}
	return now.Sub(file.ActivityReference()) >= StagnationThreshold
}

// Stagnant selects idle files from the oversight-relevant set: everything for
// an executive, the oversight bucket otherwise.
func Stagnant(c *Caseload, viewer Viewer, now time.Time) []models.CaseFile {
	source := c.Oversight
	if viewer.IsExecutive {
		source = c.All
	}
	out := []models.CaseFile{}
	for i := range source {
		if IsStagnant(&source[i], now) {
			out = append(out, source[i])
		}
	}
	return out
}

// Page is one slice of a flat file list
type Page struct {
	Files      []models.CaseFile `json:"data"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
}

// Paginate slices files for the executive flat list. Page is 1-based;
// out-of-range pages return an empty slice.
func Paginate(files []models.CaseFile, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	total := len(files)
	p := Page{
		Files:      []models.CaseFile{},
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
	offset := (page - 1) * limit
	if offset >= total {
		return p
	}
	end := offset + limit
	if end > total {
		end = total
	}
	p.Files = files[offset:end]
	return p
}

// Caseload loads every file and partitions it for viewer
func (s *RegistryService) Caseload(ctx context.Context, viewer Viewer, query string) (*Caseload, error) {
	files, err := s.Store.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	c := Partition(files, viewer, query, s.now())
	s.Metrics.ObservePartition(start)
	return c, nil
}

// StagnantFiles returns the viewer's stagnation exceptions
func (s *RegistryService) StagnantFiles(ctx context.Context, viewer Viewer) ([]models.CaseFile, error) {
	c, err := s.Caseload(ctx, viewer, "")
	if err != nil {
		return nil, err
	}
	stagnant := Stagnant(c, viewer, s.now())
	s.Metrics.SetStagnant(len(stagnant))
	return stagnant, nil
}
