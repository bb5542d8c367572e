package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/opencatalog/blogext/config"
	"github.com/opencatalog/blogext/controllers"
	"github.com/opencatalog/blogext/middleware"
	"github.com/opencatalog/blogext/repository"
	"github.com/opencatalog/blogext/storage"
	"github.com/opencatalog/blogext/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, store *storage.UploadStore) *gin.Engine {
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
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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

	// Uploaded files are reachable at the portal's static asset prefix.
	// The path is an external contract consumed by portal templates.
	r.Static("/fanstatic/blog/uploads", store.Dir())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	repo := repository.NewPostRepository(db, store)
	blogController := controllers.NewBlogController(repo)

	api := r.Group("/api/v1")

	api.GET("/blog", blogController.ListPosts)
	api.GET("/blog/:id", blogController.GetPost)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.SysadminRequired(), middleware.RateLimitMiddleware())
	protected.POST("/blog", blogController.CreatePost)
	protected.PUT("/blog/:id", blogController.UpdatePost)
	protected.DELETE("/blog/:id", blogController.DeletePost)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
