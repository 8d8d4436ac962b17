package handlers

import (
	"fmt"
	"log/slog"

	config "coal-market-api/configs"
	"coal-market-api/pkg/services"
)

// BuildDependencies は設定からサービス群を初期化し、履歴データを生成します。
func BuildDependencies(cfg *config.Config, logger *slog.Logger) (Dependencies, error) {
	catalog, err := config.LoadMarketCatalog(cfg.CatalogPath)
	if err != nil {
		return Dependencies{}, fmt.Errorf("カタログの初期化に失敗: %w", err)
	}
	loc := services.LoadLocation(cfg.Timezone)

	engine := services.NewMarketAnalyticsService(
		services.NewRandomSource(cfg.RandomSeed),
		services.WithCatalog(catalog),
		services.WithLocation(loc),
	)
	metrics := services.NewMarketMetrics()
	hub := services.NewStreamHub(logger)
	store := services.NewMarketStore(engine, cfg.StreamInterval, hub, metrics, logger)
	store.Seed(cfg.HistoricalCount)

	return Dependencies{
		Config:     cfg,
		Engine:     engine,
		Store:      store,
		Hub:        hub,
		Export:     services.NewExportService(engine, metrics),
		Metrics:    metrics,
		Monitoring: services.NewMonitoringService(loc),
	}, nil
}
