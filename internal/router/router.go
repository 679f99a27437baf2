package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/handler"
	"github.com/stemsi/pathway-planner/internal/middleware"
	"github.com/stemsi/pathway-planner/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Plan    *handler.PlanHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// catalogVersion tags every catalog response; ctx bounds the rate limiter's
// background sweep.
func SetupRouter(
	ctx context.Context,
	handlers *Handlers,
	cfg *config.Config,
	catalogVersion string,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "If-None-Match", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "ETag", "Location", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.Brotli())

	router.GET("/health", handlers.System.Health)

	api := router.Group("/api/v1")

	// ─── 1. Catalog (read-only, cacheable) ─────────────────────────────
	catalogAPI := api.Group("/catalog")
	catalogAPI.Use(
		middleware.CacheControl(cfg.CacheMaxAge),
		middleware.ETag(catalogVersion),
	)
	{
		catalogAPI.GET("/rules", handlers.Catalog.Rules)
		catalogAPI.GET("/cohorts", handlers.Catalog.Cohorts)
		catalogAPI.GET("/departments", handlers.Catalog.Departments)
		catalogAPI.GET("/majors", handlers.Catalog.Majors)
		catalogAPI.GET("/majors/:id", handlers.Catalog.Major)
		catalogAPI.GET("/courses", handlers.Catalog.Courses)
		catalogAPI.GET("/courses/:code", handlers.Catalog.Course)
		catalogAPI.GET("/block-courses", handlers.Catalog.BlockCourses)
		catalogAPI.GET("/schedule/:cohort", handlers.Catalog.Schedule)
	}

	// ─── 2. Plans ──────────────────────────────────────────────────────
	plans := api.Group("/plans")
	{
		create := []gin.HandlerFunc{handlers.Plan.Create}
		if cfg.PlanCreateRate > 0 {
			limiter := middleware.NewRateLimiter(ctx, cfg.PlanCreateRate, time.Minute)
			create = append([]gin.HandlerFunc{limiter.Middleware()}, create...)
		}
		plans.POST("", create...)

		plans.GET("/:id", handlers.Plan.Get)
		plans.PUT("/:id", handlers.Plan.Replace)
		plans.PUT("/:id/cohort", handlers.Plan.SelectCohort)
		plans.PUT("/:id/finance", handlers.Plan.SetFinanceChoice)
		plans.PUT("/:id/view", handlers.Plan.SetView)

		plans.POST("/:id/courses", handlers.Plan.AddCourse)
		plans.DELETE("/:id/courses", handlers.Plan.ClearElectives)
		plans.DELETE("/:id/courses/:code", handlers.Plan.RemoveCourse)

		plans.POST("/:id/majors/:major_id/toggle", handlers.Plan.ToggleMajor)
		plans.DELETE("/:id/majors", handlers.Plan.ClearMajors)
		plans.POST("/:id/block-courses/:code/toggle", handlers.Plan.ToggleBlockCourse)

		plans.GET("/:id/summary", handlers.Plan.Summary)
		plans.GET("/:id/alerts", handlers.Plan.Alerts)
		plans.GET("/:id/prerequisites/:code", handlers.Plan.PrerequisiteInfo)
		plans.GET("/:id/export", handlers.Plan.Export)
		plans.GET("/:id/snapshots", handlers.Plan.Snapshots)
	}

	// ─── 3. System ─────────────────────────────────────────────────────
	api.GET("/system/stats", handlers.System.Stats)

	return router
}
