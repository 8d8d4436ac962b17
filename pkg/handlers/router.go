package handlers

import (
	"log"
	"net/http"

	config "coal-market-api/configs"
	"coal-market-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies はルーターが必要とするサービス群
type Dependencies struct {
	Config     *config.Config
	Engine     *services.MarketAnalyticsService
	Store      *services.MarketStore
	Hub        *services.StreamHub
	Export     *services.ExportService
	Metrics    *services.MarketMetrics
	Monitoring *services.MonitoringService
}

// AuthMiddleware は X-API-KEY ヘッダーを検証します。apiKey が空なら認証しません。
func AuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// SetupRouter は cmd/server と api/index.go で共有するルーティングを構築します。
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	marketHandler := NewMarketHandler(deps.Engine, deps.Store, deps.Export, deps.Metrics)
	streamHandler := NewStreamHandler(deps.Store, deps.Hub, nil)
	adminHandler := NewAdminHandler(deps.Config, deps.Store)
	monitoringHandler := NewMonitoringHandler(deps.Monitoring)

	// ミドルウェアの登録
	r.Use(deps.Monitoring.LoggingMiddleware())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-API-KEY")
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Export-Count"}
	r.Use(cors.New(corsConfig))

	// ヘルスチェック・メトリクス
	r.GET("/health", adminHandler.HealthCheck)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(deps.Config.APIKey))
	{
		// 管理者向けAPI
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		// モニタリングAPI
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}

		// 市場データAPI
		market := v1.Group("/market")
		market.Use(adminHandler.MaintenanceGuard())
		{
			market.GET("/catalog", marketHandler.GetCatalog)
			market.GET("/records", marketHandler.GetRecords)
			market.GET("/stats", marketHandler.GetStats)
			market.GET("/series", marketHandler.GetSeries)
			market.GET("/analysis", marketHandler.GetAnalysis)
			market.GET("/anomalies", marketHandler.GetAnomalies)
			market.GET("/prediction", marketHandler.GetPrediction)
			market.GET("/policies", marketHandler.GetPolicies)
			market.GET("/quick-range", marketHandler.GetQuickRange)
			market.GET("/export", marketHandler.ExportWorkbook)

			stream := market.Group("/stream")
			{
				stream.POST("/start", streamHandler.Start)
				stream.POST("/stop", streamHandler.Stop)
				stream.PUT("/filters", streamHandler.UpdateFilters)
				stream.GET("/status", streamHandler.Status)
				stream.GET("/ws", streamHandler.Subscribe)
			}
		}
	}

	log.Printf("Router ready (environment=%s)", deps.Config.Environment)
	return r
}
