package middleware

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// ServerInfo muestra información del servidor al iniciar
func ServerInfo(port string, logger *zap.Logger) {
	hostname, _ := os.Hostname()

	goVersion := runtime.Version()
	numCPU := runtime.NumCPU()

	startTime := time.Now().Format("2006-01-02 15:04:05")

	fmt.Println("")
	fmt.Println("🚀 " + boldColor + "MRP Service API" + resetColor)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("📅 Started at: " + startTime)
	fmt.Println("🌐 Server URL: " + cyanColor + "http://localhost:" + port + resetColor)
	fmt.Println("💻 Hostname: " + hostname)
	fmt.Println("🔧 Go Version: " + goVersion)
	fmt.Println("⚡ CPU Cores: " + fmt.Sprintf("%d", numCPU))
	fmt.Println("")
	fmt.Println("📊 " + boldColor + "Available Endpoints:" + resetColor)
	fmt.Println("   POST " + blueColor + "/api/v1/mrp/plan" + resetColor + "            - Corrida del plan de requerimientos")
	fmt.Println("   GET  " + greenColor + "/api/v1/mrp/runs" + resetColor + "            - Histórico de corridas")
	fmt.Println("   GET  " + greenColor + "/api/v1/mrp/runs/:id" + resetColor + "        - Detalle de una corrida")
	fmt.Println("   GET  " + greenColor + "/api/v1/mrp/runs/:id/export" + resetColor + " - Exportar corrida a xlsx")
	fmt.Println("   GET  " + greenColor + "/api/v1/monitoring/metrics" + resetColor + "  - Métricas del servicio")
	fmt.Println("   GET  " + greenColor + "/health" + resetColor + "                     - Health Check")
	fmt.Println("")
	fmt.Println("⚙️  " + boldColor + "Environment:" + resetColor)
	fmt.Println("   🗄️  Database: PostgreSQL (histórico de corridas)")
	fmt.Println("   🗃️  Cache: Redis (archivo auxiliar)")
	fmt.Println("   📝 Logging: Structured (Zap)")
	fmt.Println("")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("✨ " + boldColor + "Server is ready to handle requests!" + resetColor)
	fmt.Println("")

	logger.Info("Server started successfully",
		zap.String("port", port),
		zap.String("hostname", hostname),
		zap.String("go_version", goVersion),
		zap.Int("cpu_cores", numCPU),
		zap.String("start_time", startTime),
	)
}
