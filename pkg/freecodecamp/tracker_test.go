package freecodecamp

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/relay/pkg/apperror"
)

func newTestTracker() *Tracker {
	tracker := NewTracker()
	tracker.now = func() time.Time {
		return time.Date(2023, time.January, 10, 12, 0, 0, 0, time.UTC)
	}

	return tracker
}

func TestAddUserIdempotent(t *testing.T) {
	tracker := newTestTracker()

	first, err := tracker.AddUser("fcc_test")
	require.NoError(t, err)
	assert.Len(t, first.ID, 64)

	second, err := tracker.AddUser("fcc_test")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = tracker.AddUser("other")
	require.NoError(t, err)

	users := tracker.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "fcc_test", users[0].Username)
	assert.Equal(t, "other", users[1].Username)

	_, err = tracker.AddUser(" ")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestAddExercise(t *testing.T) {
	tracker := newTestTracker()
	user, _ := tracker.AddUser("runner")

	result, err := tracker.AddExercise(user.ID, "run", "30", "2023-01-05")
	require.NoError(t, err)
	assert.Equal(t, "Thu Jan 05 2023", result.Date)
	assert.Equal(t, float64(30), result.Duration)
	assert.Equal(t, "runner", result.Username)

	result, err = tracker.AddExercise(user.ID, "swim", "45", "")
	require.NoError(t, err)
	assert.Equal(t, "Tue Jan 10 2023", result.Date)
}

func TestAddExerciseErrors(t *testing.T) {
	tracker := newTestTracker()
	user, _ := tracker.AddUser("runner")

	_, err := tracker.AddExercise("missing", "", "", "")
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
	assert.Equal(t, "User not found", apperror.MessageOf(err))

	_, err = tracker.AddExercise(user.ID, "run", "", "")
	assert.Equal(t, "Description and duration are required", apperror.MessageOf(err))

	_, err = tracker.AddExercise(user.ID, "run", "half an hour", "")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	_, err = tracker.AddExercise(user.ID, "run", "30", "yesterday")
	assert.Equal(t, "Invalid date", apperror.MessageOf(err))
}

func TestLogsFilters(t *testing.T) {
	tracker := newTestTracker()
	user, _ := tracker.AddUser("runner")

	for _, date := range []string{"2023-01-01", "2023-01-03", "2023-01-05", "2023-01-07"} {
		_, err := tracker.AddExercise(user.ID, "run "+date, "10", date)
		require.NoError(t, err)
	}

	all, err := tracker.Logs(user.ID, LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Count)
	assert.Len(t, all.Log, 4)

	window, err := tracker.Logs(user.ID, LogFilter{From: "2023-01-03", To: "2023-01-05"})
	require.NoError(t, err)
	assert.Equal(t, 4, window.Count)
	require.Len(t, window.Log, 2)
	assert.Equal(t, "Tue Jan 03 2023", window.Log[0].Date)
	assert.Equal(t, "Thu Jan 05 2023", window.Log[1].Date)

	limited, err := tracker.Logs(user.ID, LogFilter{From: "2023-01-02", Limit: "1"})
	require.NoError(t, err)
	require.Len(t, limited.Log, 1)
	assert.Equal(t, "run 2023-01-03", limited.Log[0].Description)

	// Filtering must not touch the stored log
	again, err := tracker.Logs(user.ID, LogFilter{})
	require.NoError(t, err)
	assert.Len(t, again.Log, 4)
}

func TestLogsErrors(t *testing.T) {
	tracker := newTestTracker()
	user, _ := tracker.AddUser("runner")

	_, err := tracker.Logs("missing", LogFilter{})
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	_, err = tracker.Logs(user.ID, LogFilter{From: "soon"})
	assert.Equal(t, "Invalid from date", apperror.MessageOf(err))

	_, err = tracker.Logs(user.ID, LogFilter{To: "later"})
	assert.Equal(t, "Invalid to date", apperror.MessageOf(err))

	_, err = tracker.Logs(user.ID, LogFilter{Limit: "ten"})
	assert.Equal(t, "Invalid limit", apperror.MessageOf(err))

	empty, err := tracker.Logs(user.ID, LogFilter{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Log)
	assert.Equal(t, 0, empty.Count)
}
