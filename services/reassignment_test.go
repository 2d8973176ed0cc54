package services

import (
	"context"
	"testing"

	"case_registry_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reassignmentFixture() models.CaseFile {
	return models.CaseFile{
		FileNumber: "F-100",
		Group:      "Civil",
		AssignedTo: "A",
		Status:     models.FileStatusActive,
		Movements: models.JSONList[models.Movement]{
			{ID: "m1", Date: daysAgo(30), MovedTo: "A"},
		},
		FileRequests: models.JSONList[models.FileRequest]{
			{ID: "r1", RequesterName: "B"},
			{ID: "r2", RequesterName: "C"},
		},
	}
}

func TestApplyReassignment(t *testing.T) {
	t.Run("NonTriggeringPatchAppendsNothing", func(t *testing.T) {
		file := reassignmentFixture()
		patch := FilePatch{
			Subject:       ptr("New subject"),
			Category:      ptr("Land"),
			AmountClaimed: ptr(1500.0),
			AssignedTo:    ptr("A"),
			Group:         ptr("Civil"),
		}

		updated, triggered := ApplyReassignment(file, patch, testNow, "new")
		assert.False(t, triggered)
		assert.Len(t, updated.Movements, 1)
		assert.Len(t, updated.FileRequests, 2)
		assert.Equal(t, "New subject", updated.Subject)
		assert.Equal(t, 1500.0, updated.AmountClaimed)
	})

	t.Run("LeadChangeAppendsOneMovementAndDropsRequest", func(t *testing.T) {
		file := reassignmentFixture()
		updated, triggered := ApplyReassignment(file, FilePatch{AssignedTo: ptr("B")}, testNow, "new")

		require.True(t, triggered)
		require.Len(t, updated.Movements, 2)
		added := updated.Movements[1]
		assert.Equal(t, "new", added.ID)
		assert.Equal(t, "B", added.MovedTo)
		assert.True(t, added.Date.Equal(testNow))
		assert.Equal(t, "Reassigned to Civil group", added.Status)
		assert.Nil(t, added.ReceivedAt)

		require.Len(t, updated.FileRequests, 1)
		assert.Equal(t, "C", updated.FileRequests[0].RequesterName)

		assert.Len(t, file.Movements, 1, "input file must not change")
		assert.Equal(t, "m1", updated.Movements[0].ID)
	})

	t.Run("GroupOnlyChangeMovesToCurrentLead", func(t *testing.T) {
		file := reassignmentFixture()
		updated, triggered := ApplyReassignment(file, FilePatch{Group: ptr("Criminal")}, testNow, "new")

		require.True(t, triggered)
		require.Len(t, updated.Movements, 2)
		assert.Equal(t, "A", updated.Movements[1].MovedTo)
		assert.Equal(t, "Reassigned to Criminal group", updated.Movements[1].Status)
		assert.Equal(t, "Criminal", updated.Group)
	})

	t.Run("TriggerComparesRawValues", func(t *testing.T) {
		file := reassignmentFixture()
		updated, triggered := ApplyReassignment(file, FilePatch{AssignedTo: ptr("a")}, testNow, "new")
		assert.True(t, triggered)
		assert.Len(t, updated.Movements, 2)
	})

	t.Run("StatusTransitionsStampCompletion", func(t *testing.T) {
		file := reassignmentFixture()
		completed, _ := ApplyReassignment(file, FilePatch{Status: ptr(models.FileStatusCompleted)}, testNow, "x")
		require.NotNil(t, completed.CompletedAt)
		assert.True(t, completed.CompletedAt.Equal(testNow))

		reopened, _ := ApplyReassignment(completed, FilePatch{Status: ptr(models.FileStatusActive)}, testNow, "y")
		assert.Nil(t, reopened.CompletedAt)
	})
}

func TestFilePatchValidate(t *testing.T) {
	assert.NoError(t, FilePatch{}.Validate())
	assert.ErrorIs(t, FilePatch{Status: ptr("Archived")}.Validate(), ErrValidationFailed)
	assert.ErrorIs(t, FilePatch{AssignedTo: ptr("  ")}.Validate(), ErrValidationFailed)
	assert.ErrorIs(t, FilePatch{AmountRecovered: ptr(-1.0)}.Validate(), ErrValidationFailed)
}

func TestUpdateFileReassignment(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	r.createFile(t, "F-1", "A")
	_, err := r.RequestFile(ctx, "F-1", "", "B")
	require.NoError(t, err)

	updated, err := r.UpdateFile(ctx, "F-1", FilePatch{AssignedTo: ptr("B")})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.AssignedTo)

	stored := r.reload(t, "F-1")
	require.Len(t, stored.Movements, 1)
	assert.Equal(t, "B", stored.Movements[0].MovedTo)
	assert.Empty(t, stored.FileRequests)
	assert.Equal(t, "B", ResolveCustody(stored.Movements, testNow).Custodian.Name())
	assert.Contains(t, r.Audit.actions(), models.AuditActionReassign)

	_, err = r.UpdateFile(ctx, "F-1", FilePatch{Subject: ptr("<b>Land</b> dispute")})
	require.NoError(t, err)
	stored = r.reload(t, "F-1")
	assert.Len(t, stored.Movements, 1)
	assert.Equal(t, "Land dispute", stored.Subject)
}
