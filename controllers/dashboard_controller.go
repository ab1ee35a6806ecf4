package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campusboard/models"
	"campusboard/utils"
)

// Dashboard limits for recent posts and upcoming tasks.
const dashboardLimit = 5

// DashboardController serves the read-only aggregation view.
type DashboardController struct {
	db *gorm.DB
}

// NewDashboardController creates a new DashboardController instance.
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{db: db}
}

// GetSummary returns the session user's 5 most recent posts, their 5
// soonest-due incomplete tasks, and total/completed/pending task counts.
func (d *DashboardController) GetSummary(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	var recentPosts []models.Post
	if err := d.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(dashboardLimit).
		Find(&recentPosts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load recent posts")
		return
	}

	var upcomingTasks []models.Task
	if err := d.db.Where("user_id = ? AND is_completed = ?", userID, false).
		Order("due_date IS NULL, due_date ASC, id ASC").
		Limit(dashboardLimit).
		Find(&upcomingTasks).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load upcoming tasks")
		return
	}

	var totalTasks, completedTasks int64
	if err := d.db.Model(&models.Task{}).
		Where("user_id = ?", userID).
		Count(&totalTasks).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to count tasks")
		return
	}
	if err := d.db.Model(&models.Task{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&completedTasks).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to count completed tasks")
		return
	}

	utils.Success(ctx, gin.H{
		"recent_posts":   recentPosts,
		"upcoming_tasks": upcomingTasks,
		"task_counts": gin.H{
			"total":     totalTasks,
			"completed": completedTasks,
			"pending":   totalTasks - completedTasks,
		},
	})
}
