package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/admission-analytics/admin-api/api/swagger"
	"github.com/admission-analytics/admin-api/internal/audit"
	"github.com/admission-analytics/admin-api/internal/handler"
	"github.com/admission-analytics/admin-api/internal/middleware"
	"github.com/admission-analytics/admin-api/internal/repository"
	"github.com/admission-analytics/admin-api/internal/service"
	"github.com/admission-analytics/admin-api/pkg/cache"
	"github.com/admission-analytics/admin-api/pkg/config"
	"github.com/admission-analytics/admin-api/pkg/database"
	"github.com/admission-analytics/admin-api/pkg/logger"
	corsmiddleware "github.com/admission-analytics/admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/admission-analytics/admin-api/pkg/middleware/requestid"
)

// @title Admission Analytics Admin API
// @version 1.0.0
// @description Activity log, auth, user and school-visit administration
// @BasePath /api
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Meta.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, meta caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	logRepo := repository.NewLogRepository(db)
	userRepo := repository.NewUserRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	recorder := audit.NewRecorder(logRepo, logr)

	authSvc := service.NewAuthService(userRepo, recorder, validate, logr, service.AuthConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	})
	userSvc := service.NewUserService(userRepo, recorder, validate, logr)
	visitSvc := service.NewVisitService(visitRepo, logr)

	var logSvc *service.LogService
	if cacheRepo != nil {
		logSvc = service.NewLogService(logRepo, cacheRepo, cfg.Meta.TTL, metrics, logr)
	} else {
		logSvc = service.NewLogService(logRepo, nil, 0, metrics, logr)
	}
	exportSvc := service.NewExportService(logRepo, cfg.Export, metrics, logr, nil, nil, nil)

	secureCookies := cfg.Env == config.EnvProduction
	authHandler := handler.NewAuthHandler(authSvc, cfg.Session, secureCookies)
	logHandler := handler.NewLogHandler(logSvc, exportSvc)
	userHandler := handler.NewUserHandler(userSvc)
	visitHandler := handler.NewVisitHandler(visitSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.SessionBridge(authSvc, middleware.BridgeConfig{
		CookieName:  cfg.Session.CookieName,
		LoginPath:   cfg.Routes.LoginPath,
		LandingPath: cfg.Routes.LandingPath,
	}))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireSession := middleware.RequireSession(authSvc, cfg.Session.CookieName)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/signout", middleware.OptionalSession(authSvc, cfg.Session.CookieName), authHandler.Signout)
		api.PUT("/auth/password", requireSession, authHandler.ChangePassword)

		logs := api.Group("/logs", requireSession, middleware.RBAC("admin", "manager"))
		{
			logs.GET("", logHandler.List)
			logs.GET("/meta", logHandler.Meta)
			logs.GET("/export", logHandler.Export)
		}

		users := api.Group("/users", requireSession)
		{
			users.POST("", middleware.RBAC("admin"), userHandler.Create)
			users.GET("/:id", middleware.RBAC("admin", "SELF"), userHandler.Get)
			users.PUT("/:id", middleware.RBAC("admin", "SELF"), userHandler.Update)
			users.DELETE("/:id", middleware.RBAC("admin"), userHandler.Delete)
		}

		visits := api.Group("/visitas", requireSession)
		{
			visits.POST("/list", visitHandler.List)
			visits.GET("/:id", visitHandler.Get)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
