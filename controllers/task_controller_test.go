package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusboard/models"
)

func createTask(t *testing.T, r *gin.Engine, token string, body gin.H) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/tasks/create", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w)
	task, ok := data["task"].(map[string]interface{})
	require.True(t, ok)
	return uint(task["id"].(float64))
}

func listTaskTitles(t *testing.T, r *gin.Engine, token, query string) []string {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/tasks"+query, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items, ok := decodeData(t, w)["items"].([]interface{})
	require.True(t, ok)
	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.(map[string]interface{})["title"].(string))
	}
	return titles
}

func TestCreateTaskValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "alice", "secret1")

	w := doJSON(t, r, http.MethodPost, "/tasks/create", token, gin.H{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/tasks/create", token, gin.H{
		"title": "essay", "due_date": "next tuesday",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	createTask(t, r, token, gin.H{"title": "essay", "due_date": "2026-09-15", "category": "school"})
}

func TestListTasksOrderingAndNulls(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "alice", "secret1")

	createTask(t, r, token, gin.H{"title": "no due date"})
	createTask(t, r, token, gin.H{"title": "due later", "due_date": "2026-12-01"})
	createTask(t, r, token, gin.H{"title": "due soon", "due_date": "2026-09-01"})

	// Ascending by due date; tasks without one sort last.
	assert.Equal(t, []string{"due soon", "due later", "no due date"}, listTaskTitles(t, r, token, ""))
}

func TestListTasksFilters(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "alice", "secret1")

	chores := createTask(t, r, token, gin.H{"title": "laundry", "category": "chores"})
	createTask(t, r, token, gin.H{"title": "essay", "category": "school"})

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/tasks/complete/%d", chores), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"laundry"}, listTaskTitles(t, r, token, "?status=completed"))
	assert.Equal(t, []string{"essay"}, listTaskTitles(t, r, token, "?status=pending"))
	assert.Len(t, listTaskTitles(t, r, token, "?status=all"), 2)
	assert.Equal(t, []string{"essay"}, listTaskTitles(t, r, token, "?category=school"))

	w = doJSON(t, r, http.MethodGet, "/tasks?status=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Category list only carries the user's own non-empty categories.
	w = doJSON(t, r, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	categories, ok := decodeData(t, w)["categories"].([]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []interface{}{"chores", "school"}, categories)
}

func TestListTasksScopedToOwner(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceToken := registerAndLogin(t, r, "alice", "secret1")
	bobToken := registerAndLogin(t, r, "bob", "secret1")

	createTask(t, r, aliceToken, gin.H{"title": "alice task"})

	assert.Empty(t, listTaskTitles(t, r, bobToken, ""))
	assert.Equal(t, []string{"alice task"}, listTaskTitles(t, r, aliceToken, ""))
}

func TestCompleteTaskIdempotent(t *testing.T) {
	r, db := newTestRouter(t)
	token := registerAndLogin(t, r, "alice", "secret1")
	id := createTask(t, r, token, gin.H{"title": "laundry"})

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/tasks/complete/%d", id), token, nil)
		require.Equal(t, http.StatusOK, w.Code, "attempt %d", i+1)
	}

	var task models.Task
	require.NoError(t, db.First(&task, id).Error)
	assert.True(t, task.IsCompleted)
}

func TestTaskOwnerScope(t *testing.T) {
	r, db := newTestRouter(t)
	aliceToken := registerAndLogin(t, r, "alice", "secret1")
	bobToken := registerAndLogin(t, r, "bob", "secret1")
	id := createTask(t, r, aliceToken, gin.H{"title": "private"})

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/tasks/complete/%d", id), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/tasks/delete/%d", id), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var task models.Task
	require.NoError(t, db.First(&task, id).Error)
	assert.False(t, task.IsCompleted)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/tasks/delete/%d", id), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, listTaskTitles(t, r, aliceToken, ""))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/tasks/delete/%d", id), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
