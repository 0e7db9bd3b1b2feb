package middleware

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"inventory-service/internal/config"

	"go.uber.org/zap"
)

// ServerInfo muestra información del servidor al iniciar
func ServerInfo(cfg *config.Config, aiEnabled bool, logger *zap.Logger) {
	port := cfg.Server.Port
	hostname, _ := os.Hostname()

	goVersion := runtime.Version()
	numCPU := runtime.NumCPU()

	startTime := time.Now().Format("2006-01-02 15:04:05")

	cacheMode := "L1 in-memory"
	if cfg.Redis.URL != "" {
		cacheMode = "L1 in-memory + L2 Redis"
	}
	aiMode := "disabled (AI_API_KEY not set)"
	if aiEnabled {
		aiMode = cfg.AI.Model
	}

	fmt.Println("")
	fmt.Println("🚀 " + boldColor + "Inventory Service API" + resetColor)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("📅 Started at: " + startTime)
	fmt.Println("🌐 Server URL: " + cyanColor + "http://localhost:" + port + resetColor)
	fmt.Println("💻 Hostname: " + hostname)
	fmt.Println("🔧 Go Version: " + goVersion)
	fmt.Println("⚡ CPU Cores: " + fmt.Sprintf("%d", numCPU))
	fmt.Println("")
	fmt.Println("📊 " + boldColor + "Available Endpoints:" + resetColor)
	fmt.Println("   GET  " + greenColor + "/" + resetColor + "                      - API Information")
	fmt.Println("   GET  " + greenColor + "/health" + resetColor + "                - Health Check")
	fmt.Println("   *    " + greenColor + "/api/v1/items" + resetColor + "          - Catalog & stock adjustments")
	fmt.Println("   GET  " + greenColor + "/api/v1/movements" + resetColor + "      - Movement history & exports")
	fmt.Println("   GET  " + greenColor + "/api/v1/dashboard" + resetColor + "      - KPIs (also /ws)")
	fmt.Println("   GET  " + greenColor + "/api/v1/analytics" + resetColor + "      - Yearly analysis")
	fmt.Println("   POST " + greenColor + "/api/v1/backup/export" + resetColor + "  - Full backup")
	fmt.Println("   POST " + greenColor + "/api/v1/backup/import" + resetColor + "  - Restore / merge backup")
	fmt.Println("")
	fmt.Println("🔍 " + boldColor + "Monitoring:" + resetColor)
	fmt.Println("   📈 Health Check: " + cyanColor + "http://localhost:" + port + "/health" + resetColor)
	fmt.Println("   📉 Prometheus:   " + cyanColor + "http://localhost:" + port + "/metrics" + resetColor)
	fmt.Println("")
	fmt.Println("⚙️  " + boldColor + "Environment:" + resetColor)
	fmt.Println("   🗄️  Database: " + cfg.Database.Driver)
	fmt.Println("   🗃️  Cache: " + cacheMode)
	fmt.Println("   🤖 Assistant: " + aiMode)
	fmt.Println("   📝 Logging: Structured (Zap, " + cfg.Logging.Level + ")")
	fmt.Println("")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("✨ " + boldColor + "Server is ready to handle requests!" + resetColor)
	fmt.Println("")

	logger.Info("Server started successfully",
		zap.String("port", port),
		zap.String("hostname", hostname),
		zap.String("go_version", goVersion),
		zap.Int("cpu_cores", numCPU),
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("assistant_enabled", aiEnabled),
		zap.String("start_time", startTime),
	)
}
