package handlers

import (
	"net/http"
	"testing"

	"case_registry_go/models"
	"case_registry_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReminderHandlers(t *testing.T) {
	h, _ := newTestHandler(t)
	jane := createAttorney(t, h, "Jane Doe", "Civil", false, false)
	seedFiles(t, h, services.CreateFileInput{FileNumber: "F-1", AssignedTo: "Jane Doe"})

	_, c, rec := setupEcho(http.MethodPost, "/api/files/F-1/reminders", jsonBody(t, map[string]string{"text": "File reply"}))
	withParams(c, "fileNumber", "F-1")
	actAs(c, jane)
	require.NoError(t, h.AddFileReminderHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var reminder models.Reminder
	decodeData(t, rec, &reminder)
	assert.Equal(t, "Jane Doe", reminder.CreatedBy)

	_, c, rec = setupEcho(http.MethodPut, "/api/files/F-1/reminders/"+reminder.ID, jsonBody(t, map[string]bool{"done": true}))
	withParams(c, "fileNumber", "F-1", "id", reminder.ID)
	actAs(c, jane)
	require.NoError(t, h.CompleteFileReminderHandler(c))
	decodeData(t, rec, &reminder)
	assert.True(t, reminder.Done)

	_, c, rec = setupEcho(http.MethodDelete, "/api/files/F-1/reminders/"+reminder.ID, nil)
	withParams(c, "fileNumber", "F-1", "id", reminder.ID)
	actAs(c, jane)
	require.NoError(t, h.DeleteFileReminderHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, c, _ = setupEcho(http.MethodPost, "/api/files/F-1/reminders", jsonBody(t, map[string]string{"text": "  "}))
	withParams(c, "fileNumber", "F-1")
	actAs(c, jane)
	assert.Equal(t, http.StatusBadRequest, statusOf(h.AddFileReminderHandler(c)))
}

func TestGeneralReminderHandlers(t *testing.T) {
	h, _ := newTestHandler(t)
	jane := createAttorney(t, h, "Jane Doe", "Civil", false, false)
	john := createAttorney(t, h, "John Roe", "Civil", false, false)

	_, c, rec := setupEcho(http.MethodPost, "/api/reminders", jsonBody(t, map[string]string{"text": "Renew practising licence"}))
	actAs(c, jane)
	require.NoError(t, h.CreateReminderHandler(c))

	var reminder models.GeneralReminder
	decodeData(t, rec, &reminder)
	assert.Equal(t, jane.ID, reminder.OwnerID)

	_, c, rec = setupEcho(http.MethodGet, "/api/reminders", nil)
	actAs(c, john)
	require.NoError(t, h.ListRemindersHandler(c))
	var others []models.GeneralReminder
	decodeData(t, rec, &others)
	assert.Empty(t, others)

	_, c, _ = setupEcho(http.MethodDelete, "/api/reminders/"+reminder.ID, nil)
	withParams(c, "id", reminder.ID)
	actAs(c, john)
	assert.Equal(t, http.StatusNotFound, statusOf(h.DeleteReminderHandler(c)))

	_, c, rec = setupEcho(http.MethodDelete, "/api/reminders/"+reminder.ID, nil)
	withParams(c, "id", reminder.ID)
	actAs(c, jane)
	require.NoError(t, h.DeleteReminderHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
