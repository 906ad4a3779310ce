package main

import (
	"database/sql"
	"log"

	"mrp-service/internal/cache"
	"mrp-service/internal/config"
	"mrp-service/internal/database"
	"mrp-service/internal/handlers"
	"mrp-service/internal/middleware"
	"mrp-service/internal/repository"
	"mrp-service/internal/routes"
	"mrp-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error cargando configuración: %v", err)
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Error inicializando logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.GinMode)

	// PostgreSQL es opcional: sin base de datos el servicio corre sin
	// histórico de corridas.
	var dbPool *sql.DB
	var runRepository repository.RunRepository
	postgresDB, err := database.NewPostgresDB(
		cfg.Database.URL,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
		logger,
	)
	if err != nil {
		logger.Warn("⚠️ PostgreSQL no disponible, histórico deshabilitado", zap.Error(err))
	} else {
		defer postgresDB.Close()
		dbPool = postgresDB.DB
		runRepository, err = repository.NewRunRepository(dbPool)
		if err != nil {
			logger.Warn("⚠️ Error preparando el repository, histórico deshabilitado", zap.Error(err))
			runRepository = nil
		}
	}

	// Redis también es opcional: sin Redis el caché del auxiliar queda solo
	// en memoria.
	var redisClient *redis.Client
	redisDB, err := database.NewRedisDB(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Warn("⚠️ Redis no disponible, caché solo en memoria", zap.Error(err))
	} else {
		defer redisDB.Close()
		redisClient = redisDB.Client
	}

	referenceCache := cache.NewReferenceCache(
		redisClient,
		cfg.Reference.Path,
		cfg.Reference.MaterialSheet,
		cfg.Reference.StoreSheet,
		cfg.Redis.CacheTTL,
		logger,
	)

	monitoringService := services.NewMonitoringService(logger, redisClient, dbPool, referenceCache)
	normalizerService := services.NewNormalizerService(logger)
	engineService := services.NewEngineService(logger)
	diagnosticsService := services.NewDiagnosticsService(logger)
	exportService := services.NewExportService(logger)
	planService := services.NewPlanService(
		normalizerService,
		engineService,
		diagnosticsService,
		referenceCache,
		runRepository,
		monitoringService,
		cfg.Reference.DefaultClusters,
		logger,
	)

	planHandler := handlers.NewPlanHandler(planService, exportService, runRepository, logger)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService, logger)
	healthChecker := middleware.NewHealthChecker(postgresDB, redisDB, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.RequestIDMiddleware())

	routes.SetupRoutes(router, planHandler, monitoringHandler, healthChecker)

	middleware.ServerInfo(cfg.Server.Port, logger)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Error iniciando servidor", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapConfig.Build()
}
