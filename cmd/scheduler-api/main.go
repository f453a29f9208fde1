package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campuskit/section-scheduler/api/swagger"
	"github.com/campuskit/section-scheduler/internal/client"
	"github.com/campuskit/section-scheduler/internal/handler"
	"github.com/campuskit/section-scheduler/internal/middleware"
	"github.com/campuskit/section-scheduler/internal/occupancy"
	"github.com/campuskit/section-scheduler/internal/repository"
	"github.com/campuskit/section-scheduler/internal/service"
	"github.com/campuskit/section-scheduler/pkg/cache"
	"github.com/campuskit/section-scheduler/pkg/config"
	"github.com/campuskit/section-scheduler/pkg/database"
	"github.com/campuskit/section-scheduler/pkg/logger"
	corsmiddleware "github.com/campuskit/section-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/campuskit/section-scheduler/pkg/middleware/requestid"
)

// @title Section Scheduler API
// @version 1.0.0
// @description Interactive weekly schedule building for academic sections
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	registrar := client.NewRegistrar(cfg.Registrar, logr)

	schedules := service.NewScheduleService(registrar, occupancy.NewResolver(logr), cfg.Grid, metrics, logr)
	conflicts := service.NewConflictService(registrar, metrics, logr)

	var auditRepo *repository.AuditRepository
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Audit.Database)
		if err != nil {
			logr.Fatal("failed to connect audit database", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		auditRepo = repository.NewAuditRepository(db)
	}

	var overlayCache service.OverlayCache
	if cfg.Overlay.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, overlay cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			overlayCache = repository.NewCacheRepository(redisClient, logr)
		}
	}
	overlays := service.NewOverlayService(registrar, overlayCache, cfg.Overlay.CacheTTL, cfg.Overlay.Enabled, metrics, logr)

	// A typed nil pointer inside a non-nil interface would defeat the
	// placement service's nil checks, so the hooks are set conditionally.
	var auditHook service.AuditRecorder
	if auditRepo != nil {
		auditHook = auditRepo
	}
	var overlayHook service.OverlayInvalidator
	if overlayCache != nil {
		overlayHook = overlays
	}
	placements := service.NewPlacementService(registrar, conflicts, schedules, auditHook, overlayHook, nil, cfg.Grid, metrics, logr)

	exports := service.NewExportService(schedules, nil, logr)

	scheduleHandler := handler.NewScheduleHandler(schedules)
	placementHandler := handler.NewPlacementHandler(placements)
	slotHandler := handler.NewSlotHandler(schedules, placements)
	overlayHandler := handler.NewOverlayHandler(overlays)
	exportHandler := handler.NewExportHandler(exports)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))
	{
		api.GET("/sections/:id/schedule", scheduleHandler.Get)
		api.GET("/sections/:id/schedule/summary", scheduleHandler.Summary)
		api.GET("/sections/:id/schedule/export", exportHandler.Timetable)
		api.POST("/sections/:id/placements", placementHandler.Open)

		api.GET("/placements/:sid", placementHandler.Get)
		api.DELETE("/placements/:sid", placementHandler.Cancel)
		api.POST("/placements/:sid/arm", placementHandler.Arm)
		api.POST("/placements/:sid/target", placementHandler.Target)
		api.POST("/placements/:sid/drop", placementHandler.Drop)
		api.POST("/placements/:sid/confirm", placementHandler.Confirm)
		api.POST("/placements/:sid/decline", placementHandler.Decline)

		api.DELETE("/slots/:id", slotHandler.Delete)
		api.PATCH("/slots/:id", slotHandler.Update)

		api.GET("/professors/:id/overlay", overlayHandler.Get)

		if auditRepo != nil {
			api.GET("/sections/:id/audit", handler.NewAuditHandler(auditRepo).ListBySection)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
