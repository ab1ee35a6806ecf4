package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campusboard/config"
	"campusboard/controllers"
	"campusboard/middleware"
	"campusboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	taskController := controllers.NewTaskController(db)
	helpController := controllers.NewHelpController(db)
	dashboardController := controllers.NewDashboardController(db)

	// Public surface
	r.GET("/", postController.ListPosts)
	r.POST("/register", middleware.RateLimitMiddleware(), authController.Register)
	r.POST("/login", middleware.RateLimitMiddleware(), authController.Login)

	// Everything below requires a session
	session := r.Group("", middleware.SessionRequired())

	session.GET("/logout", authController.Logout)
	session.GET("/me", authController.Me)

	session.POST("/create", postController.CreatePost)
	session.POST("/edit/:id", postController.EditPost)
	session.GET("/delete/:id", postController.DeletePost)

	session.GET("/tasks", taskController.ListTasks)
	session.POST("/tasks/create", taskController.CreateTask)
	session.GET("/tasks/complete/:id", taskController.CompleteTask)
	session.GET("/tasks/delete/:id", taskController.DeleteTask)

	session.GET("/help", helpController.ListRequests)
	session.POST("/help/create", helpController.CreateRequest)
	session.GET("/help/:id", helpController.GetRequest)
	session.POST("/help/:id", helpController.AddReply)
	session.GET("/help/delete/:id", helpController.DeleteRequest)

	session.GET("/dashboard", dashboardController.GetSummary)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
