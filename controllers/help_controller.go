package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campusboard/models"
	"campusboard/utils"
)

// HelpController manages the peer help-request board and its reply threads.
type HelpController struct {
	db *gorm.DB
}

// NewHelpController creates a new HelpController instance.
func NewHelpController(db *gorm.DB) *HelpController {
	return &HelpController{db: db}
}

// ListRequests returns all help requests, newest first. Query parameters:
// subject (substring match) and search (substring on title or description).
// The board is visible to every authenticated user.
func (h *HelpController) ListRequests(ctx *gin.Context) {
	subject := strings.TrimSpace(ctx.Query("subject"))
	search := strings.TrimSpace(ctx.Query("search"))

	query := h.db.Model(&models.HelpRequest{})
	if subject != "" {
		query = query.Where("subject LIKE ?", "%"+subject+"%")
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var requests []models.HelpRequest
	if err := query.Order("created_at DESC, id DESC").Preload("User").Find(&requests).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list help requests")
		return
	}

	var subjects []string
	if err := h.db.Model(&models.HelpRequest{}).
		Where("subject <> ''").
		Distinct().
		Pluck("subject", &subjects).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list subjects")
		return
	}

	utils.Success(ctx, gin.H{"items": requests, "subjects": subjects})
}

// CreateRequest opens a new help request. Title and description are required.
func (h *HelpController) CreateRequest(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Subject     string `json:"subject"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	description := utils.Sanitize(strings.TrimSpace(req.Description))
	if title == "" || description == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "title and description are required")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40117, "unauthorized")
		return
	}

	request := models.HelpRequest{
		UserID:      userID,
		Title:       title,
		Description: description,
		Subject:     strings.TrimSpace(req.Subject),
	}
	if err := h.db.Create(&request).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to create help request")
		return
	}

	utils.Success(ctx, gin.H{"request": request})
}

// GetRequest returns one help request with its replies ordered oldest first.
func (h *HelpController) GetRequest(ctx *gin.Context) {
	requestID := ctx.Param("id")

	var request models.HelpRequest
	if err := h.db.Preload("User").First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "help request not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load help request")
		return
	}

	var replies []models.HelpReply
	if err := h.db.Where("request_id = ?", request.ID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load replies")
		return
	}

	// Batch-load reply authors instead of preloading row by row.
	if len(replies) > 0 {
		var userIDs []uint
		for _, r := range replies {
			userIDs = append(userIDs, r.UserID)
		}
		userIDs = utils.UniqueUint(userIDs)

		var users []models.User
		if err := h.db.Find(&users, userIDs).Error; err == nil {
			userMap := make(map[uint]models.User, len(users))
			for _, u := range users {
				userMap[u.ID] = u
			}
			for i := range replies {
				if user, ok := userMap[replies[i].UserID]; ok {
					replies[i].User = user
				}
			}
		} else {
			utils.Sugar.Warnw("failed to load reply authors", "request_id", request.ID, "error", err)
		}
	}
	request.Replies = replies

	utils.Success(ctx, gin.H{"request": request})
}

// AddReply appends a reply to a help request. Any authenticated user may
// reply; replies are immutable once created.
func (h *HelpController) AddReply(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40043, "content cannot be empty")
		return
	}

	requestID := ctx.Param("id")
	var request models.HelpRequest
	if err := h.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "help request not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to load help request")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40118, "unauthorized")
		return
	}

	reply := models.HelpReply{RequestID: request.ID, UserID: userID, Content: content}
	if err := h.db.Create(&reply).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to create reply")
		return
	}
	if err := h.db.Preload("User").First(&reply, reply.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to load reply")
		return
	}

	utils.Success(ctx, gin.H{"reply": reply})
}

// DeleteRequest removes an owned help request together with all of its
// replies in a single transaction.
func (h *HelpController) DeleteRequest(ctx *gin.Context) {
	requestID := ctx.Param("id")
	var request models.HelpRequest
	if err := h.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40406, "help request not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to load help request")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40119, "unauthorized")
		return
	}
	if request.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40303, "you can only delete your own help requests")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", request.ID).Delete(&models.HelpReply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&request).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50049, "failed to delete help request")
		return
	}

	utils.Success(ctx, gin.H{"message": "help request deleted"})
}
