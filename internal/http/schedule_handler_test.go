package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"policy-data/internal/repository"
)

func newScheduleFixture(t *testing.T) (*ScheduleHandler, *repository.MemoryMessagesRepo, *Router) {
	t.Helper()

	messages := repository.NewMemoryMessagesRepo()
	handler := NewScheduleHandler(messages, zap.NewNop())
	t.Cleanup(handler.StopAll)

	router := NewRouter(zap.NewNop())
	router.RegisterScheduleRoutes(handler)
	return handler, messages, router
}

func postSchedule(t *testing.T, router *Router, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/schedule-message", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScheduleMessage_MissingParameters(t *testing.T) {
	_, _, router := newScheduleFixture(t)

	for _, payload := range []map[string]string{
		{},
		{"message": "hi"},
		{"message": "hi", "day": "2099-01-01"},
		{"day": "2099-01-01", "time": "10:00:00"},
	} {
		w := postSchedule(t, router, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestScheduleMessage_InvalidDate(t *testing.T) {
	_, _, router := newScheduleFixture(t)

	w := postSchedule(t, router, map[string]string{
		"message": "hi", "day": "01/02/2099", "time": "10:00:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var res Result[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ResultError, res.Code)
	assert.Contains(t, res.Message, "Invalid date or time format")
}

func TestScheduleMessage_PastRejected(t *testing.T) {
	_, messages, router := newScheduleFixture(t)

	past := time.Now().UTC().Add(-time.Hour)
	w := postSchedule(t, router, map[string]string{
		"message": "hi",
		"day":     past.Format("2006-01-02"),
		"time":    past.Format("15:04:05"),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, messages.Messages())
}

func TestScheduleMessage_FiresAndInserts(t *testing.T) {
	handler, messages, router := newScheduleFixture(t)

	at := time.Now().UTC().Add(1 * time.Second)
	w := postSchedule(t, router, map[string]string{
		"message": "policy renewal reminder",
		"day":     at.Format("2006-01-02"),
		"time":    at.Format("15:04:05"),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var res Result[map[string]any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ResultSuccess, res.Code)
	assert.NotEmpty(t, res.Result["jobName"])
	assert.NotEmpty(t, res.Result["scheduledFor"])
	assert.Equal(t, 1, handler.PendingJobs())

	require.Eventually(t, func() bool {
		return len(messages.Messages()) == 1
	}, 5*time.Second, 50*time.Millisecond)

	got := messages.Messages()[0]
	assert.Equal(t, "policy renewal reminder", got.Message)
	assert.WithinDuration(t, at, got.ScheduledAt, time.Second)

	// 触发后任务表清空
	require.Eventually(t, func() bool {
		return handler.PendingJobs() == 0
	}, time.Second, 20*time.Millisecond)
}

func TestScheduleMessage_StopAllCancelsPending(t *testing.T) {
	handler, messages, router := newScheduleFixture(t)

	at := time.Now().UTC().Add(time.Hour)
	w := postSchedule(t, router, map[string]string{
		"message": "hi",
		"day":     at.Format("2006-01-02"),
		"time":    at.Format("15:04:05"),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, handler.PendingJobs())

	handler.StopAll()
	assert.Equal(t, 0, handler.PendingJobs())
	assert.Empty(t, messages.Messages())
}

func TestScheduleMessage_MethodNotAllowed(t *testing.T) {
	_, _, router := newScheduleFixture(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedule-message", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
