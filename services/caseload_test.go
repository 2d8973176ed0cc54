package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"case_registry_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caseFile(number string, mutate func(f *models.CaseFile)) models.CaseFile {
	f := models.CaseFile{
		ID:         "id-" + number,
		FileNumber: number,
		Status:     models.FileStatusActive,
		CreatedAt:  daysAgo(60),
	}
	if mutate != nil {
		mutate(&f)
	}
	return f
}

func fileNumbers(files []models.CaseFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.FileNumber)
	}
	return out
}

var jane = Viewer{ID: "att-jane", FullName: "Jane Doe", Group: "Civil"}

func TestPartition(t *testing.T) {
	files := []models.CaseFile{
		caseFile("LEAD", func(f *models.CaseFile) { f.AssignedTo = " jane doe " }),
		caseFile("CO", func(f *models.CaseFile) {
			f.AssignedTo = "John Roe"
			f.CoAssignees = models.JSONList[string]{"Someone", "JANE DOE"}
		}),
		caseFile("DESK", func(f *models.CaseFile) {
			f.AssignedTo = "John Roe"
			f.Movements = models.JSONList[models.Movement]{{ID: "m1", Date: daysAgo(1), MovedTo: "Jane Doe"}}
		}),
		caseFile("PINNED", func(f *models.CaseFile) {
			f.AssignedTo = "Jane Doe"
			f.Pinned = models.JSONMap[bool]{"att-jane": true}
		}),
		caseFile("DONE", func(f *models.CaseFile) {
			f.AssignedTo = "Jane Doe"
			f.Status = models.FileStatusCompleted
			f.Pinned = models.JSONMap[bool]{"att-jane": true}
		}),
		caseFile("PAST", func(f *models.CaseFile) {
			f.AssignedTo = "John Roe"
			f.Movements = models.JSONList[models.Movement]{
				{ID: "m1", Date: daysAgo(9), MovedTo: "Jane Doe"},
				{ID: "m2", Date: daysAgo(2), MovedTo: "John Roe"},
			}
		}),
		caseFile("OTHER", func(f *models.CaseFile) {
			f.AssignedTo = "John Roe"
			f.Group = "Civil"
		}),
	}

	t.Run("Buckets", func(t *testing.T) {
		c := Partition(files, jane, "", testNow)

		assert.Equal(t, []string{"LEAD"}, fileNumbers(c.Primary))
		assert.Equal(t, []string{"CO"}, fileNumbers(c.Collaborative))
		assert.Equal(t, []string{"DESK"}, fileNumbers(c.Action))
		assert.Equal(t, []string{"PINNED"}, fileNumbers(c.Pinned))
		assert.Equal(t, []string{"DONE"}, fileNumbers(c.Completed))
		assert.Equal(t, []string{"PAST"}, fileNumbers(c.Historical))
		assert.Empty(t, c.Oversight)
		assert.Nil(t, c.All)
	})

	t.Run("CompletedBeatsPinned", func(t *testing.T) {
		c := Partition(files, jane, "", testNow)
		assert.NotContains(t, fileNumbers(c.Pinned), "DONE")
		assert.Contains(t, fileNumbers(c.Completed), "DONE")
	})

	t.Run("GroupHeadOversees", func(t *testing.T) {
		head := jane
		head.IsGroupHead = true
		c := Partition(files, head, "", testNow)
		assert.Equal(t, []string{"OTHER"}, fileNumbers(c.Oversight))
	})

	t.Run("GroupHeadOfAnotherGroup", func(t *testing.T) {
		head := jane
		head.IsGroupHead = true
		head.Group = "Criminal"
		c := Partition(files, head, "", testNow)
		assert.Empty(t, c.Oversight)
	})

	t.Run("Executive", func(t *testing.T) {
		exec := Viewer{ID: "att-sg", FullName: "Solicitor General", IsExecutive: true}
		c := Partition(files, exec, "", testNow)
		assert.Len(t, c.All, len(files))
		assert.Equal(t, []string{"DONE"}, fileNumbers(c.Completed))
		assert.Empty(t, c.Primary)
		assert.Empty(t, c.Pinned)
		assert.Empty(t, c.Historical)
	})

	t.Run("QueryFilter", func(t *testing.T) {
		c := Partition(files, jane, "desk", testNow)
		assert.Equal(t, 1, c.Size())
		assert.Equal(t, []string{"DESK"}, fileNumbers(c.Action))

		c = Partition(files, jane, "someone", testNow)
		assert.Equal(t, []string{"CO"}, fileNumbers(c.Collaborative))
		assert.Equal(t, 1, c.Size())
	})
}

func TestPartitionDisjoint(t *testing.T) {
	names := []string{"Jane Doe", "John Roe", "jane doe ", ""}
	var files []models.CaseFile
	for i := 0; i < 48; i++ {
		i := i
		files = append(files, caseFile(fmt.Sprintf("F-%02d", i), func(f *models.CaseFile) {
			f.AssignedTo = names[i%4]
			f.Group = []string{"Civil", "Criminal"}[i%2]
			if i%3 == 0 {
				f.CoAssignees = models.JSONList[string]{names[(i/3)%4]}
			}
			if i%5 == 0 {
				f.Status = models.FileStatusCompleted
			}
			if i%7 < 3 {
				f.Pinned = models.JSONMap[bool]{"att-jane": true}
			}
			f.Movements = models.JSONList[models.Movement]{{ID: "m", Date: daysAgo(i % 9), MovedTo: names[(i+1)%4]}}
		}))
	}

	for _, viewer := range []Viewer{jane, {ID: "att-jane", FullName: "Jane Doe", Group: "Civil", IsGroupHead: true}} {
		c := Partition(files, viewer, "", testNow)
		seen := map[string]string{}
		buckets := map[string][]models.CaseFile{
			"pinned": c.Pinned, "primary": c.Primary, "collaborative": c.Collaborative,
			"action": c.Action, "oversight": c.Oversight, "completed": c.Completed,
		}
		for name, bucket := range buckets {
			for _, f := range bucket {
				prev, dup := seen[f.FileNumber]
				assert.False(t, dup, "%s in both %s and %s", f.FileNumber, prev, name)
				seen[f.FileNumber] = name
			}
		}
		for _, f := range c.Historical {
			_, dup := seen[f.FileNumber]
			assert.False(t, dup, "%s is historical and in a role bucket", f.FileNumber)
		}
	}
}

func TestStagnant(t *testing.T) {
	at := func(d int) *time.Time {
		ts := daysAgo(d)
		return &ts
	}
	files := []models.CaseFile{
		caseFile("IDLE", func(f *models.CaseFile) { f.Group = "Civil"; f.LastActivityAt = at(20) }),
		caseFile("RECENT", func(f *models.CaseFile) { f.Group = "Civil"; f.LastActivityAt = at(10) }),
		caseFile("EXACT", func(f *models.CaseFile) { f.Group = "Civil"; f.LastActivityAt = at(14) }),
		caseFile("CLOSED", func(f *models.CaseFile) {
			f.Group = "Civil"
			f.LastActivityAt = at(40)
			f.Status = models.FileStatusCompleted
		}),
		caseFile("FALLBACK", func(f *models.CaseFile) { f.Group = "Civil"; f.ReportableDate = daysAgo(30) }),
		caseFile("MINE", func(f *models.CaseFile) { f.Group = "Civil"; f.AssignedTo = "Jane Doe"; f.LastActivityAt = at(30) }),
	}

	t.Run("GroupHeadUsesOversightBucket", func(t *testing.T) {
		head := jane
		head.IsGroupHead = true
		c := Partition(files, head, "", testNow)
		assert.ElementsMatch(t, []string{"IDLE", "EXACT", "FALLBACK"}, fileNumbers(Stagnant(c, head, testNow)))
	})

	t.Run("ExecutiveUsesEverything", func(t *testing.T) {
		exec := Viewer{ID: "sg", FullName: "SG", IsExecutive: true}
		c := Partition(files, exec, "", testNow)
		assert.ElementsMatch(t, []string{"IDLE", "EXACT", "FALLBACK", "MINE"}, fileNumbers(Stagnant(c, exec, testNow)))
	})

	t.Run("CreationDateFallback", func(t *testing.T) {
		f := caseFile("OLD", nil)
		assert.True(t, IsStagnant(&f, testNow))
		f.CreatedAt = daysAgo(2)
		assert.False(t, IsStagnant(&f, testNow))
	})
}

func TestPaginate(t *testing.T) {
	var files []models.CaseFile
	for i := 0; i < 45; i++ {
		files = append(files, caseFile(fmt.Sprintf("F-%02d", i), nil))
	}

	p := Paginate(files, 2, 20)
	assert.Equal(t, 45, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, "F-20", p.Files[0].FileNumber)
	assert.Len(t, p.Files, 20)

	assert.Len(t, Paginate(files, 3, 20).Files, 5)
	assert.Empty(t, Paginate(files, 4, 20).Files)
	assert.Equal(t, 1, Paginate(files, 0, 0).Page)
	assert.Equal(t, 0, Paginate(nil, 1, 20).TotalPages)
}

func TestCaseloadService(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	r.createFile(t, "F-1", "Jane Doe")
	r.createFile(t, "F-2", "John Roe")

	c, err := r.Caseload(ctx, jane, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"F-1"}, fileNumbers(c.Primary))

	stagnant, err := r.StagnantFiles(ctx, Viewer{ID: "sg", FullName: "SG", IsExecutive: true})
	require.NoError(t, err)
	assert.Empty(t, stagnant)
}
