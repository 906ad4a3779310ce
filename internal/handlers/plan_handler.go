package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"mrp-service/internal/models"
	"mrp-service/internal/repository"
	"mrp-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// PlanHandler maneja las peticiones HTTP de corridas del plan de
// requerimientos
type PlanHandler struct {
	planService   services.PlanService
	exportService services.ExportService
	runRepository repository.RunRepository
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewPlanHandler crea una nueva instancia del handler. runRepository puede
// ser nil cuando el servicio corre sin base de datos.
func NewPlanHandler(
	planService services.PlanService,
	exportService services.ExportService,
	runRepository repository.RunRepository,
	logger *zap.Logger,
) *PlanHandler {
	return &PlanHandler{
		planService:   planService,
		exportService: exportService,
		runRepository: runRepository,
		validator:     validator.New(),
		logger:        logger,
	}
}

// logDebug logs solo en modo debug
func (h *PlanHandler) logDebug(msg string, fields ...zap.Field) {
	h.logger.Debug("🔍 [DEBUG] "+msg, fields...)
}

// logInfo logs en todos los modos
func (h *PlanHandler) logInfo(msg string, fields ...zap.Field) {
	h.logger.Info("ℹ️ "+msg, fields...)
}

// logError logs errores en todos los modos
func (h *PlanHandler) logError(msg string, fields ...zap.Field) {
	h.logger.Error("❌ "+msg, fields...)
}

// logSuccess logs de éxito en todos los modos
func (h *PlanHandler) logSuccess(msg string, fields ...zap.Field) {
	h.logger.Info("✅ "+msg, fields...)
}

// RunPlan ejecuta una corrida del plan con los tres archivos del formulario
func (h *PlanHandler) RunPlan(c *gin.Context) {
	start := time.Now()

	h.logDebug("Iniciando corrida del plan de requerimientos")

	var req models.PlanRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logError("Error binding form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Error en el formato de datos",
			"error":   err.Error(),
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logError("Validation error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Datos de entrada inválidos",
			"error":   err.Error(),
		})
		return
	}

	closingDate, err := time.Parse("2006-01-02", req.FechaStock)
	if err != nil {
		h.logError("Error parsing fecha_stock", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Fecha de stock inválida",
			"error":   "La fecha debe tener formato YYYY-MM-DD",
		})
		return
	}

	demand, err := h.formFile(c, "consumos")
	if err != nil {
		return
	}
	defer demand.Close()

	stock, err := h.formFile(c, "stock")
	if err != nil {
		return
	}
	defer stock.Close()

	orders, err := h.formFile(c, "compras")
	if err != nil {
		return
	}
	defer orders.Close()

	h.logInfo("Corrida recibida",
		zap.String("fecha_stock", req.FechaStock),
		zap.Strings("clusters", req.Clusters))

	result, err := h.planService.Run(c.Request.Context(), services.PlanInput{
		Demand:      demand,
		Stock:       stock,
		Orders:      orders,
		ClosingDate: closingDate,
		Clusters:    req.Clusters,
	})
	if err != nil {
		h.logError("Error procesando la corrida", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "❌ Error procesando la corrida del plan",
			"error":   err.Error(),
		})
		return
	}

	if len(result.Warnings) > 0 {
		h.logError("Corrida detenida por advertencias",
			zap.Strings("warnings", result.Warnings))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "⚠️ " + result.Warnings[0],
			"data": gin.H{
				"warnings":  result.Warnings,
				"summary":   result.Summary,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		})
		return
	}

	h.logSuccess("Corrida completada",
		zap.Int("ordenes_sugeridas", len(result.Orders)),
		zap.Int("ajustes", result.Summary.Adjustments),
		zap.Duration("latency", time.Since(start)))

	response := models.PlanResponse{
		Success: true,
		Message: "✅ Plan de requerimientos generado correctamente",
	}
	if result.Run != nil {
		response.Data.RunID = result.Run.ID
	}
	response.Data.Orders = result.Orders
	response.Data.Diagnostics = result.Diagnostics
	response.Data.Summary = result.Summary
	response.Data.Timestamp = time.Now().UTC().Format(time.RFC3339)

	c.JSON(http.StatusOK, response)
}

// formFile abre una parte del formulario multipart y responde el error HTTP
// cuando falta
func (h *PlanHandler) formFile(c *gin.Context, name string) (multipart.File, error) {
	fileHeader, err := c.FormFile(name)
	if err != nil {
		h.logError("Archivo faltante en el formulario", zap.String("campo", name), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("❌ Falta el archivo '%s' en el formulario", name),
			"error":   err.Error(),
		})
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logError("Error abriendo archivo del formulario", zap.String("campo", name), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("❌ No se pudo leer el archivo '%s'", name),
			"error":   err.Error(),
		})
		return nil, err
	}

	h.logDebug("Archivo recibido",
		zap.String("campo", name),
		zap.String("filename", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size))
	return file, nil
}

// ListRuns lista el histórico de corridas
func (h *PlanHandler) ListRuns(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "list_runs"))

	if h.runRepository == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": "❌ Histórico no disponible",
			"error":   "El servicio corre sin base de datos",
		})
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.runRepository.ListRuns(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Error obteniendo histórico", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error obteniendo el histórico de corridas",
			"error":   err.Error(),
		})
		return
	}

	logger.Info("Histórico obtenido", zap.Int("total_corridas", len(runs)))

	response := models.RunsResponse{
		Success: true,
		Message: "✅ Histórico obtenido correctamente",
	}
	response.Data.TotalRuns = len(runs)
	response.Data.Runs = runs
	response.Data.Timestamp = time.Now().UTC().Format(time.RFC3339)

	c.JSON(http.StatusOK, response)
}

// GetRun obtiene una corrida puntual con sus compras sugeridas
func (h *PlanHandler) GetRun(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_run"))

	if h.runRepository == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": "❌ Histórico no disponible",
			"error":   "El servicio corre sin base de datos",
		})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Error parsing run ID", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ ID de corrida inválido",
			"error":   "El ID debe ser un número válido",
		})
		return
	}

	run, err := h.runRepository.GetRun(c.Request.Context(), id)
	if err != nil {
		logger.Error("Error obteniendo corrida", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error obteniendo la corrida",
			"error":   err.Error(),
		})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "❌ Corrida no encontrada",
			"error":   fmt.Sprintf("No existe la corrida %d", id),
		})
		return
	}

	orders, err := h.runRepository.GetRunOrders(c.Request.Context(), id)
	if err != nil {
		logger.Error("Error obteniendo compras de la corrida", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error obteniendo las compras de la corrida",
			"error":   err.Error(),
		})
		return
	}

	logger.Info("Corrida obtenida",
		zap.Int64("run_id", id),
		zap.Int("total_ordenes", len(orders)))

	response := models.RunDetailResponse{
		Success: true,
		Message: "✅ Corrida obtenida correctamente",
	}
	response.Data.Run = run
	response.Data.Orders = orders
	response.Data.Timestamp = time.Now().UTC().Format(time.RFC3339)

	c.JSON(http.StatusOK, response)
}

// ExportRun descarga el listado de compras de una corrida como xlsx
func (h *PlanHandler) ExportRun(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "export_run"))

	if h.runRepository == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": "❌ Histórico no disponible",
			"error":   "El servicio corre sin base de datos",
		})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Error parsing run ID", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ ID de corrida inválido",
			"error":   "El ID debe ser un número válido",
		})
		return
	}

	run, err := h.runRepository.GetRun(c.Request.Context(), id)
	if err != nil {
		logger.Error("Error obteniendo corrida", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error obteniendo la corrida",
			"error":   err.Error(),
		})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "❌ Corrida no encontrada",
			"error":   fmt.Sprintf("No existe la corrida %d", id),
		})
		return
	}

	orders, err := h.runRepository.GetRunOrders(c.Request.Context(), id)
	if err != nil {
		logger.Error("Error obteniendo compras de la corrida", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error obteniendo las compras de la corrida",
			"error":   err.Error(),
		})
		return
	}

	data, err := h.exportService.ExportOrders(orders)
	if err != nil {
		logger.Error("Error exportando corrida", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error generando el archivo de exportación",
			"error":   err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("ordenes_sugeridas_%d.xlsx", int(run.YearWeek))
	logger.Info("Corrida exportada",
		zap.Int64("run_id", id),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
