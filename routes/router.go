package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jihuadaka/checkin-server/config"
	"github.com/jihuadaka/checkin-server/controllers"
	"github.com/jihuadaka/checkin-server/middleware"
	"github.com/jihuadaka/checkin-server/repository"
	"github.com/jihuadaka/checkin-server/services"
	"github.com/jihuadaka/checkin-server/utils"
)

// SetupRouter wires routes, middlewares, services and controllers.
func SetupRouter(db *gorm.DB, loc *time.Location) *gin.Engine {
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
	r.Use(middleware.RequestID())
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
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	store := repository.NewStore(db)
	clock := services.SystemClock()

	taskService := services.NewTaskService(store, clock, loc, utils.Sanitize)
	rewardService := services.NewRewardService(store, utils.Sanitize)
	balanceService := services.NewBalanceService(store)
	checkinService := services.NewCheckinService(store, clock, loc)
	redemptionService := services.NewRedemptionService(store, clock)
	statsService := services.NewStatsService(store, clock, loc)

	authController := controllers.NewAuthController(store)
	taskController := controllers.NewTaskController(taskService)
	checkinController := controllers.NewCheckinController(checkinService)
	pointsController := controllers.NewPointsController(balanceService)
	rewardController := controllers.NewRewardController(rewardService, redemptionService)
	statsController := controllers.NewStatsController(statsService)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	protected.POST("/tasks", taskController.CreateTask)
	protected.GET("/tasks", taskController.ListTasks)
	protected.PUT("/tasks/:id", taskController.UpdateTask)
	protected.DELETE("/tasks/:id", taskController.DeleteTask)

	protected.POST("/checkin", checkinController.Checkin)
	protected.GET("/checkins", checkinController.ListCheckins)

	protected.GET("/points", pointsController.ListHistory)
	protected.GET("/points/balance", pointsController.GetBalance)

	protected.POST("/rewards", rewardController.CreateReward)
	protected.GET("/rewards", rewardController.ListRewards)
	protected.PUT("/rewards/:id", rewardController.UpdateReward)
	protected.DELETE("/rewards/:id", rewardController.DeleteReward)
	protected.POST("/rewards/:id/redeem", rewardController.Redeem)
	protected.GET("/redemptions", rewardController.ListRedemptions)

	protected.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
