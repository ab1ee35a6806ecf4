package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campusboard/models"
	"campusboard/utils"
)

// dueDateLayout is the calendar-date form accepted for task due dates.
const dueDateLayout = "2006-01-02"

// TaskController manages the per-user task tracker.
type TaskController struct {
	db *gorm.DB
}

// NewTaskController creates a new TaskController instance.
func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{db: db}
}

// ListTasks returns the session user's tasks, optionally filtered by
// category substring and completion status, ordered by due date ascending.
// Tasks without a due date sort last.
func (t *TaskController) ListTasks(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	category := strings.TrimSpace(ctx.Query("category"))
	status := strings.TrimSpace(ctx.Query("status"))
	if status == "" {
		status = models.TaskStatusAll
	}

	query := t.db.Where("user_id = ?", userID)
	if category != "" {
		query = query.Where("category LIKE ?", "%"+category+"%")
	}
	switch status {
	case models.TaskStatusAll:
	case models.TaskStatusCompleted:
		query = query.Where("is_completed = ?", true)
	case models.TaskStatusPending:
		query = query.Where("is_completed = ?", false)
	default:
		utils.Error(ctx, http.StatusBadRequest, 40030, "status must be all, completed or pending")
		return
	}

	var tasks []models.Task
	if err := query.Order("due_date IS NULL, due_date ASC, id ASC").Find(&tasks).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to list tasks")
		return
	}

	var categories []string
	if err := t.db.Model(&models.Task{}).
		Where("user_id = ? AND category <> ''", userID).
		Distinct().
		Pluck("category", &categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list categories")
		return
	}

	utils.Success(ctx, gin.H{"items": tasks, "categories": categories})
}

// CreateTask adds a task for the session user. Title is required; due_date,
// when present, must be a calendar date like 2026-01-31.
func (t *TaskController) CreateTask(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		DueDate     string `json:"due_date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40032, "title is required")
		return
	}

	var dueDate *time.Time
	if raw := strings.TrimSpace(req.DueDate); raw != "" {
		parsed, err := time.Parse(dueDateLayout, raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40033, "due_date must be formatted as YYYY-MM-DD")
			return
		}
		dueDate = &parsed
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "unauthorized")
		return
	}

	task := models.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		DueDate:     dueDate,
	}
	if err := t.db.Create(&task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to create task")
		return
	}

	utils.Success(ctx, gin.H{"task": task})
}

// CompleteTask marks an owned task completed. Completing an already
// completed task is a no-op, not an error.
func (t *TaskController) CompleteTask(ctx *gin.Context) {
	task, ok := t.loadOwnedTask(ctx)
	if !ok {
		return
	}
	if !task.IsCompleted {
		task.IsCompleted = true
		if err := t.db.Save(task).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to update task")
			return
		}
	}
	utils.Success(ctx, gin.H{"task": task})
}

// DeleteTask permanently removes an owned task.
func (t *TaskController) DeleteTask(ctx *gin.Context) {
	task, ok := t.loadOwnedTask(ctx)
	if !ok {
		return
	}
	if err := t.db.Delete(task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete task")
		return
	}
	utils.Success(ctx, gin.H{"message": "task deleted"})
}

func (t *TaskController) loadOwnedTask(ctx *gin.Context) (*models.Task, bool) {
	taskID := ctx.Param("id")
	var task models.Task
	if err := t.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "task not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to load task")
		return nil, false
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40116, "unauthorized")
		return nil, false
	}
	if task.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only modify your own tasks")
		return nil, false
	}
	return &task, true
}
