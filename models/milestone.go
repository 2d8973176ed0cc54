package models

// Milestone is one stage of a file's fixed progression
type Milestone struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// DefaultMilestones returns the standard litigation checklist for a new file
func DefaultMilestones() []Milestone {
	return []Milestone{
		{ID: "pleadings", Title: "Pleadings"},
		{ID: "discovery", Title: "Discovery"},
		{ID: "trial", Title: "Trial"},
		{ID: "judgment", Title: "Judgment"},
	}
}
