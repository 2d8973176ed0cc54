package services

import (
	"context"
	"fmt"
	"testing"

	"case_registry_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMovement(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)
	r.createFile(t, "F-1", "A")
	_, err := r.RequestFile(ctx, "F-1", "att-b", "B")
	require.NoError(t, err)
	_, err = r.RequestFile(ctx, "F-1", "att-c", "C")
	require.NoError(t, err)

	file, err := r.RecordMovement(ctx, "F-1", MovementInput{MovedTo: " b ", Status: "For review"})
	require.NoError(t, err)
	require.Len(t, file.Movements, 1)
	assert.Equal(t, "b", file.Movements[0].MovedTo)
	assert.True(t, file.Movements[0].Date.Equal(testNow))

	stored := r.reload(t, "F-1")
	require.Len(t, stored.FileRequests, 1)
	assert.Equal(t, "C", stored.FileRequests[0].RequesterName)
	require.NotNil(t, stored.LastActivityAt)

	custody, err := r.CustodyOf(ctx, "F-1")
	require.NoError(t, err)
	assert.True(t, custody.InTransit)
	assert.True(t, custody.Custodian.HeldBy("B"))

	_, err = r.RecordMovement(ctx, "F-404", MovementInput{MovedTo: "B"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.RecordMovement(ctx, "", MovementInput{MovedTo: "B"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestRecordMovementSameDateKeepsLastAsCustodian(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)
	r.NewID = NewTimeOrderedID

	date := daysAgo(45)
	for i := 0; i < 20; i++ {
		fileNumber := fmt.Sprintf("F-%d", i)
		r.createFile(t, fileNumber, "A")
		_, err := r.RecordMovement(ctx, fileNumber, MovementInput{Date: date, MovedTo: "Jane Doe"})
		require.NoError(t, err)
		_, err = r.RecordMovement(ctx, fileNumber, MovementInput{Date: date, MovedTo: "Bob Roe"})
		require.NoError(t, err)

		custody, err := r.CustodyOf(ctx, fileNumber)
		require.NoError(t, err)
		require.Equal(t, "Bob Roe", custody.Custodian.Name(), "file %s", fileNumber)
	}
}

func TestAcknowledgeMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("NotifiesCustodian", func(t *testing.T) {
		r := newTestRegistry(t)
		r.createFile(t, "F-1", "A", models.Movement{ID: "m1", Date: daysAgo(2), MovedTo: "Jane Doe"})

		file, err := r.AcknowledgeMovement(ctx, "F-1", "m1", "Jane Doe")
		require.NoError(t, err)
		require.NotNil(t, file.Movements[0].ReceivedAt)

		status, err := r.CustodyOf(ctx, "F-1")
		require.NoError(t, err)
		assert.False(t, status.InTransit)

		require.Len(t, r.Notifier.notices, 1)
		assert.Equal(t, "Jane Doe", r.Notifier.notices[0].Custodian)
		assert.Equal(t, models.NotificationTypeCustodyReceived, r.Notifier.notices[0].Type)
	})

	t.Run("RegistryIsNotNotified", func(t *testing.T) {
		r := newTestRegistry(t)
		r.createFile(t, "F-1", "A", models.Movement{ID: "m1", Date: daysAgo(2), MovedTo: "Registry"})

		_, err := r.AcknowledgeMovement(ctx, "F-1", "m1", "Clerk")
		require.NoError(t, err)
		assert.Empty(t, r.Notifier.notices)
	})

	t.Run("Errors", func(t *testing.T) {
		r := newTestRegistry(t)
		r.createFile(t, "F-1", "A", models.Movement{ID: "m1", Date: daysAgo(2), MovedTo: "Jane Doe"})

		_, err := r.AcknowledgeMovement(ctx, "F-1", "m9", "Jane Doe")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = r.AcknowledgeMovement(ctx, "F-1", "m1", "")
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestFileRequests(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)
	r.createFile(t, "F-1", "A")

	_, err := r.RequestFile(ctx, "F-1", "att-b", "B")
	require.NoError(t, err)
	file, err := r.RequestFile(ctx, "F-1", "att-b", " b")
	require.NoError(t, err)
	require.Len(t, file.FileRequests, 1, "repeat request is a no-op")

	stored := r.reload(t, "F-1")
	require.Len(t, stored.FileRequests, 1)
	requestID := stored.FileRequests[0].ID

	_, err = r.CancelRequest(ctx, "F-1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	file, err = r.CancelRequest(ctx, "F-1", requestID)
	require.NoError(t, err)
	assert.Empty(t, file.FileRequests)
	assert.Empty(t, r.reload(t, "F-1").FileRequests)

	_, err = r.RequestFile(ctx, "F-1", "", "  ")
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, r.Audit.actions(), models.AuditActionRequestCancel)
}
