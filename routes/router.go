package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pfplabs/croaker/agent"
	"github.com/pfplabs/croaker/config"
	"github.com/pfplabs/croaker/controllers"
	"github.com/pfplabs/croaker/middleware"
	"github.com/pfplabs/croaker/store"
	"github.com/pfplabs/croaker/utils"
)

// SetupRouter wires routes, middlewares, and controllers for the ops API.
func SetupRouter(st *store.Store, a *agent.Agent) *gin.Engine {
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

	r.GET("/healthz", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	agentController := controllers.NewAgentController(a)
	postController := controllers.NewPostController(st)
	statsController := controllers.NewStatsController(st)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	api.GET("/status", agentController.Status)
	api.GET("/posts", postController.ListPosts)
	api.GET("/stats", statsController.GetStats)
	api.POST("/pause", agentController.Pause)
	api.POST("/resume", agentController.Resume)
	api.POST("/trigger", agentController.Trigger)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
