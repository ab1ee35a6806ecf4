package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campusboard/config"
	"campusboard/middleware"
	"campusboard/models"
	"campusboard/utils"
)

// AuthController handles registration, credential verification, and the
// session lifecycle.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register handles account creation with salted password hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	if req.Username == "" || req.Password == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username and password are required")
		return
	}
	if l := len([]rune(req.Username)); l < 2 || l > 64 {
		utils.Error(ctx, http.StatusBadRequest, 40003, "username must be 2-64 characters")
		return
	}
	if !validUsername(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "username may only contain letters, digits, '-' and '_'")
		return
	}

	cfg := config.Get()
	if len(req.Password) < cfg.PasswordMinLength {
		utils.Error(ctx, http.StatusBadRequest, 40004,
			fmt.Sprintf("password must be at least %d characters", cfg.PasswordMinLength))
		return
	}

	var existing models.User
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check username")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{Username: req.Username, PasswordHash: hash}
	if err := a.db.Create(&user).Error; err != nil {
		// Unique index race between the existence check and the insert.
		utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
		return
	}

	utils.Sugar.Infow("user registered", "user_id", user.ID, "username", user.Username)
	utils.Success(ctx, gin.H{"user": user})
}

// Login verifies credentials and establishes a server-side session. Unknown
// users and wrong passwords answer identically so account existence is not
// leaked.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)

	var user models.User
	err := a.db.Where("username = ?", req.Username).First(&user).Error
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid username or password")
		return
	}

	ttl := time.Duration(config.Get().SessionTTLHours) * time.Hour
	token, err := utils.CreateSession(user.ID, user.Username, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create session")
		return
	}

	ctx.SetCookie(middleware.SessionCookieName, token, int(ttl.Seconds()), "/", "", false, true)
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout invalidates the current session.
func (a *AuthController) Logout(ctx *gin.Context) {
	if token := ctx.GetString(middleware.ContextSessionTokenKey); token != "" {
		utils.DeleteSession(token)
	}
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// validUsername allows letters, digits, '-' and '_'.
func validUsername(name string) bool {
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
