package services

import (
	"context"
	"errors"
	"testing"

	"case_registry_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchPickup(t *testing.T) {
	ctx := context.Background()

	t.Run("GroupsByCustodian", func(t *testing.T) {
		r := newTestRegistry(t)
		for _, n := range []string{"F-1", "F-2", "F-3"} {
			r.createFile(t, n, "Jane Doe", models.Movement{ID: "m-" + n, Date: daysAgo(3), MovedTo: "Jane Doe"})
		}
		r.createFile(t, "F-4", "John Roe", models.Movement{ID: "m-F-4", Date: daysAgo(3), MovedTo: "Registry"})
		_, err := r.RequestFile(ctx, "F-2", "", "John Roe")
		require.NoError(t, err)

		summary, err := r.BatchPickup(ctx, []string{"F-1", "F-2", "F-3", "F-4"}, "Clerk")
		require.NoError(t, err)

		require.Len(t, summary.Custodians, 1)
		assert.Equal(t, "Jane Doe", summary.Custodians[0].Custodian)
		require.Len(t, summary.Custodians[0].Files, 3)
		assert.Equal(t, "F-1", summary.Custodians[0].Files[0].FileNumber)
		assert.Equal(t, []string{"F-1", "F-2", "F-3", "F-4"}, summary.Collected)
		assert.Empty(t, summary.Skipped)

		for _, n := range summary.Collected {
			stored := r.reload(t, n)
			status := ResolveCustody(stored.Movements, testNow)
			assert.True(t, status.Custodian.IsRegistry(), n)
			assert.False(t, status.InTransit, n)
			assert.Equal(t, "Clerk", status.Latest.ReceivedBy, n)
			assert.Empty(t, stored.FileRequests, n)
		}

		require.Len(t, r.Notifier.notices, 1)
		assert.Equal(t, models.NotificationTypeFilesCollected, r.Notifier.notices[0].Type)
		assert.Len(t, r.Notifier.notices[0].Files, 3)
		assert.Contains(t, r.Audit.actions(), models.AuditActionBatchPickup)
	})

	t.Run("NameVariantsShareABucket", func(t *testing.T) {
		r := newTestRegistry(t)
		r.createFile(t, "F-1", "A", models.Movement{ID: "m1", Date: daysAgo(3), MovedTo: "Jane Doe"})
		r.createFile(t, "F-2", "A", models.Movement{ID: "m2", Date: daysAgo(3), MovedTo: " jane doe"})
		r.createFile(t, "F-3", "A", models.Movement{ID: "m3", Date: daysAgo(3), MovedTo: "John Roe"})

		summary, err := r.BatchPickup(ctx, []string{"F-1", "F-2", "F-3"}, "Clerk")
		require.NoError(t, err)
		require.Len(t, summary.Custodians, 2)
		assert.Len(t, summary.Custodians[0].Files, 2)
		assert.Equal(t, "John Roe", summary.Custodians[1].Custodian)
	})

	t.Run("SkipsMissingFiles", func(t *testing.T) {
		r := newTestRegistry(t)
		r.createFile(t, "F-1", "A")

		summary, err := r.BatchPickup(ctx, []string{"F-1", "F-404", "F-1"}, "Clerk")
		require.NoError(t, err)
		assert.Equal(t, []string{"F-1"}, summary.Collected)
		assert.Equal(t, []string{"F-404"}, summary.Skipped)
		assert.Empty(t, summary.Custodians)
		assert.Empty(t, r.Notifier.notices)
	})

	t.Run("NotifierFailureDoesNotFailPickup", func(t *testing.T) {
		r := newTestRegistry(t)
		r.Notifier.err = errors.New("smtp down")
		r.createFile(t, "F-1", "A", models.Movement{ID: "m1", Date: daysAgo(3), MovedTo: "Jane Doe"})

		summary, err := r.BatchPickup(ctx, []string{"F-1"}, "Clerk")
		require.NoError(t, err)
		assert.Len(t, summary.Collected, 1)
	})

	t.Run("Validation", func(t *testing.T) {
		r := newTestRegistry(t)
		r.MaxBatchSize = 2

		_, err := r.BatchPickup(ctx, []string{"F-1"}, " ")
		assert.ErrorIs(t, err, ErrValidationFailed)
		_, err = r.BatchPickup(ctx, []string{" ", ""}, "Clerk")
		assert.ErrorIs(t, err, ErrValidationFailed)
		_, err = r.BatchPickup(ctx, []string{"F-1", "F-2", "F-3"}, "Clerk")
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestBatchMove(t *testing.T) {
	ctx := context.Background()

	t.Run("AppendsOneMovementPerFile", func(t *testing.T) {
		r := newTestRegistry(t)
		r.createFile(t, "F-1", "A")
		r.createFile(t, "F-2", "A")
		_, err := r.RequestFile(ctx, "F-2", "", "John Roe")
		require.NoError(t, err)

		result, err := r.BatchMove(ctx, BatchMoveInput{
			FileNumbers: []string{"F-1", "F-2", "F-9"},
			MovedTo:     "John Roe",
			Status:      "For opinion",
			Group:       ptr("Criminal"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"F-1", "F-2"}, result.Updated)
		assert.Equal(t, []string{"F-9"}, result.Skipped)

		first := r.reload(t, "F-1")
		second := r.reload(t, "F-2")
		require.Len(t, first.Movements, 1)
		require.Len(t, second.Movements, 1)
		assert.NotEqual(t, first.Movements[0].ID, second.Movements[0].ID)
		assert.Equal(t, "For opinion", first.Movements[0].Status)
		assert.True(t, first.Movements[0].Date.Equal(testNow))
		assert.Equal(t, "Criminal", second.Group)
		assert.Equal(t, "A", second.AssignedTo)
		assert.Empty(t, second.FileRequests)
	})

	t.Run("RegistryDestinationIsCanonical", func(t *testing.T) {
		r := newTestRegistry(t)
		r.createFile(t, "F-1", "A")

		_, err := r.BatchMove(ctx, BatchMoveInput{FileNumbers: []string{"F-1"}, MovedTo: "registry", AssignedTo: ptr("B")})
		require.NoError(t, err)
		stored := r.reload(t, "F-1")
		assert.Equal(t, models.RegistryName, stored.Movements[0].MovedTo)
		assert.Equal(t, "B", stored.AssignedTo)
	})

	t.Run("Validation", func(t *testing.T) {
		r := newTestRegistry(t)
		_, err := r.BatchMove(ctx, BatchMoveInput{FileNumbers: []string{"F-1"}})
		assert.ErrorIs(t, err, ErrValidationFailed)
		_, err = r.BatchMove(ctx, BatchMoveInput{FileNumbers: []string{"F-1"}, MovedTo: "X", AssignedTo: ptr("")})
		assert.ErrorIs(t, err, ErrValidationFailed)
		_, err = r.BatchMove(ctx, BatchMoveInput{MovedTo: "X"})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}
