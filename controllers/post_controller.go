package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campusboard/models"
	"campusboard/utils"
)

// Feed pages are a fixed size.
const feedPageSize = 5

// PostController manages the post feed.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// ListPosts returns the paginated feed. Supported query parameters: search
// (substring match on content or author username), user (exact username),
// subject (substring match on content), sort (newest|oldest), page.
func (p *PostController) ListPosts(ctx *gin.Context) {
	search := strings.TrimSpace(ctx.Query("search"))
	filterUser := strings.TrimSpace(ctx.Query("user"))
	filterSubject := strings.TrimSpace(ctx.Query("subject"))
	sort := strings.TrimSpace(ctx.Query("sort"))
	page := parsePage(ctx.Query("page"))

	query := p.db.Model(&models.Post{}).
		Joins("JOIN users ON users.id = posts.user_id")

	if search != "" {
		like := "%" + search + "%"
		query = query.Where("posts.content LIKE ? OR users.username LIKE ?", like, like)
	}
	if filterUser != "" {
		query = query.Where("users.username = ?", filterUser)
	}
	if filterSubject != "" {
		query = query.Where("posts.content LIKE ?", "%"+filterSubject+"%")
	}

	order := "posts.created_at DESC, posts.id DESC"
	if sort == "oldest" {
		order = "posts.created_at ASC, posts.id ASC"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count posts")
		return
	}

	var posts []models.Post
	if err := query.Order(order).
		Offset((page - 1) * feedPageSize).
		Limit(feedPageSize).
		Preload("User").
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list posts")
		return
	}

	utils.Success(ctx, gin.H{
		"items": posts,
		"pagination": gin.H{
			"page":        page,
			"page_size":   feedPageSize,
			"total":       total,
			"total_pages": int((total + feedPageSize - 1) / feedPageSize),
		},
	})
}

// CreatePost accepts a multipart form with a content field and an optional
// file attachment. At least one of the two must be present. Attachments with
// an extension outside the allow-list are dropped without failing the post.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(ctx.PostForm("content")))

	var attachment string
	if header, err := ctx.FormFile("file"); err == nil && header != nil {
		attachment, err = utils.SaveAttachment(header, userID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to store attachment")
			return
		}
	}

	if content == "" && attachment == "" {
		utils.Error(ctx, http.StatusBadRequest, 40020, "post needs content or an attachment")
		return
	}

	post := models.Post{UserID: userID, Content: content, Attachment: attachment}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to create post")
		return
	}
	if err := p.db.Preload("User").First(&post, post.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load post")
		return
	}

	utils.Success(ctx, gin.H{"post": post})
}

// EditPost lets the owner replace the text content of a post.
func (p *PostController) EditPost(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	post, ok := p.loadOwnedPost(ctx)
	if !ok {
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" && post.Attachment == "" {
		utils.Error(ctx, http.StatusBadRequest, 40022, "post needs content or an attachment")
		return
	}

	post.Content = content
	if err := p.db.Save(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost permanently removes an owned post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, ok := p.loadOwnedPost(ctx)
	if !ok {
		return
	}
	if err := p.db.Delete(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to delete post")
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// loadOwnedPost resolves the path id to a post owned by the session user,
// writing the error response itself when the lookup or ownership check fails.
func (p *PostController) loadOwnedPost(ctx *gin.Context) (*models.Post, bool) {
	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to load post")
		return nil, false
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return nil, false
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only modify your own posts")
		return nil, false
	}
	return &post, true
}

func parsePage(raw string) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return 1
}
