package handlers

import (
	"context"
	"net/http"
	"time"

	"mrp-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type MonitoringHandler struct {
	monitoringService services.MonitoringService
	logger            *zap.Logger
}

func NewMonitoringHandler(monitoringService services.MonitoringService, logger *zap.Logger) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: monitoringService,
		logger:            logger,
	}
}

// GetMetrics maneja la petición HTTP para obtener métricas
func (h *MonitoringHandler) GetMetrics(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_metrics"))

	ctx := c.Request.Context()
	metrics := h.monitoringService.GetMetrics(ctx)

	logger.Info("Métricas obtenidas exitosamente",
		zap.Int("total_runs", metrics.Runs.TotalRuns),
		zap.Int("failed_runs", metrics.Runs.FailedRuns),
		zap.String("avg_duration", metrics.Runs.AvgDurationMs))

	c.JSON(http.StatusOK, metrics)
}

// WebSocketUpgrader configuración para WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Permitir todas las conexiones para desarrollo
	},
}

// WebSocketMetrics maneja la conexión WebSocket para métricas en tiempo real
func (h *MonitoringHandler) WebSocketMetrics(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "websocket_metrics"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Error actualizando a WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	logger.Info("Conexión WebSocket establecida")

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Enviar métricas cada 10 segundos
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics := h.monitoringService.GetMetrics(context.Background())

			if err := conn.WriteJSON(metrics); err != nil {
				logger.Error("Error enviando métricas por WebSocket", zap.Error(err))
				return
			}

			logger.Debug("Métricas enviadas por WebSocket",
				zap.Int("total_runs", metrics.Runs.TotalRuns),
				zap.String("timestamp", metrics.Timestamp))

		case <-c.Request.Context().Done():
			logger.Info("Conexión WebSocket cerrada por contexto")
			return
		}
	}
}

// HealthCheck endpoint de health check
func (h *MonitoringHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	health := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0",
		"services": gin.H{
			"database": "online",
			"redis":    "online",
			"cache":    "online",
		},
	}

	redisMetrics := h.monitoringService.GetRedisStats(ctx)
	if !redisMetrics.Connected {
		health["services"].(gin.H)["redis"] = "offline"
		health["status"] = "degraded"
	}

	dbMetrics := h.monitoringService.GetDatabaseStats(ctx)
	if dbMetrics.Status != "online" {
		health["services"].(gin.H)["database"] = "offline"
		health["status"] = "degraded"
	}

	cacheMetrics := h.monitoringService.GetCacheStats()
	if cacheMetrics.Status != "online" {
		health["services"].(gin.H)["cache"] = "offline"
		health["status"] = "degraded"
	}

	c.JSON(http.StatusOK, health)
}
