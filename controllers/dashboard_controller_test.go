package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusboard/models"
)

func TestDashboardSummary(t *testing.T) {
	r, db := newTestRouter(t)
	aliceToken := registerAndLogin(t, r, "alice", "secret1")
	registerAndLogin(t, r, "bob", "secret1")
	aliceID := userIDByName(t, db, "alice")
	bobID := userIDByName(t, db, "bob")

	seedPosts(t, db, aliceID, 7)
	// Another user's posts must not leak into the summary.
	require.NoError(t, db.Create(&models.Post{UserID: bobID, Content: "bob post"}).Error)

	due := func(day int) *time.Time {
		d := time.Date(2026, 9, day, 0, 0, 0, 0, time.UTC)
		return &d
	}
	tasks := []models.Task{
		{UserID: aliceID, Title: "t-sep-03", DueDate: due(3)},
		{UserID: aliceID, Title: "t-sep-01", DueDate: due(1)},
		{UserID: aliceID, Title: "t-none"},
		{UserID: aliceID, Title: "t-sep-02", DueDate: due(2)},
		{UserID: aliceID, Title: "t-done", DueDate: due(4), IsCompleted: true},
		{UserID: aliceID, Title: "t-sep-05", DueDate: due(5)},
		{UserID: aliceID, Title: "t-sep-06", DueDate: due(6)},
	}
	for i := range tasks {
		require.NoError(t, db.Create(&tasks[i]).Error)
	}

	w := doJSON(t, r, http.MethodGet, "/dashboard", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)

	posts, ok := data["recent_posts"].([]interface{})
	require.True(t, ok)
	require.Len(t, posts, 5)
	for i, want := range []string{"post-7", "post-6", "post-5", "post-4", "post-3"} {
		assert.Equal(t, want, posts[i].(map[string]interface{})["content"])
	}

	// 5 soonest-due incomplete tasks, no-due-date last.
	upcoming, ok := data["upcoming_tasks"].([]interface{})
	require.True(t, ok)
	require.Len(t, upcoming, 5)
	var titles []string
	for _, it := range upcoming {
		titles = append(titles, it.(map[string]interface{})["title"].(string))
	}
	assert.Equal(t, []string{"t-sep-01", "t-sep-02", "t-sep-03", "t-sep-05", "t-sep-06"}, titles)

	counts, ok := data["task_counts"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 7, counts["total"])
	assert.EqualValues(t, 1, counts["completed"])
	assert.EqualValues(t, 6, counts["pending"])
}

func TestDashboardEmpty(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "alice", "secret1")

	w := doJSON(t, r, http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)

	counts, ok := data["task_counts"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"total", "completed", "pending"} {
		assert.EqualValues(t, 0, counts[key], fmt.Sprintf("count %q", key))
	}
}
