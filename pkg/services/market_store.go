package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"coal-market-api/pkg/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

var (
	ErrStreamRunning    = errors.New("ストリーミングは既に実行中です")
	ErrStreamNotRunning = errors.New("ストリーミングは実行されていません")
)

// DefaultStreamInterval ストリーミングの生成間隔
const DefaultStreamInterval = time.Second

// MarketStore は作業用データセットを保持し、ストリーミング生成を管理します。
// データセットは先頭への追加のみで、追加のたびに新しいスライスを作るため Snapshot は不変です。
type MarketStore struct {
	engine   *MarketAnalyticsService
	interval time.Duration
	hub      *StreamHub
	metrics  *MarketMetrics
	logger   *slog.Logger

	mu         sync.RWMutex
	data       []models.PriceRecord
	policies   []models.PolicyItem
	prediction *models.PredictionResult
	filters    models.StreamFilters
	scanCount  int
	sessionID  string
	startedAt  time.Time
	scheduler  *cron.Cron
}

// NewMarketStore creates a store. hub and metrics may be nil.
func NewMarketStore(engine *MarketAnalyticsService, interval time.Duration, hub *StreamHub, metrics *MarketMetrics, logger *slog.Logger) *MarketStore {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultStreamInterval
	}
	return &MarketStore{
		engine:   engine,
		interval: interval,
		hub:      hub,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "market.store")),
		data:     []models.PriceRecord{},
	}
}

// Seed は履歴データを生成し、政策ニュースと翌日予測を初期化します。
func (s *MarketStore) Seed(count int) {
	data := s.engine.GenerateHistoricalData(count)
	policies := s.engine.GeneratePolicyNews()

	var prediction *models.PredictionResult
	if p, err := s.engine.PredictNextDay(data); err == nil {
		prediction = &p
	} else {
		s.logger.Warn("prediction skipped", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	s.data = data
	s.policies = policies
	s.prediction = prediction
	s.mu.Unlock()

	s.metrics.SetDatasetSize(len(data))
	s.logger.Info("dataset seeded", slog.Int("records", len(data)))
}

// Snapshot returns the current dataset, newest first. Callers must not modify it.
func (s *MarketStore) Snapshot() []models.PriceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Policies returns the policy items.
func (s *MarketStore) Policies() []models.PolicyItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policies
}

// Prediction returns the cached next-day prediction, or nil when the dataset was empty.
func (s *MarketStore) Prediction() *models.PredictionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prediction
}

// RefreshPrediction は現在のデータセットで予測を再計算します。
func (s *MarketStore) RefreshPrediction() (models.PredictionResult, error) {
	p, err := s.engine.PredictNextDay(s.Snapshot())
	if err != nil {
		return models.PredictionResult{}, err
	}
	s.mu.Lock()
	s.prediction = &p
	s.mu.Unlock()
	return p, nil
}

// Tick はストリーミング1回分を適用します（1件を先頭に追加しカウンタを進める）。
func (s *MarketStore) Tick() models.PriceRecord {
	s.mu.Lock()
	var last *models.PriceRecord
	if len(s.data) > 0 {
		newest := s.data[0]
		last = &newest
	}
	record := s.engine.CreateNewDataPoint(last, s.filters.Type, s.filters.Location)

	next := make([]models.PriceRecord, 0, len(s.data)+1)
	next = append(next, record)
	next = append(next, s.data...)
	s.data = next
	s.scanCount++
	size := len(next)
	s.mu.Unlock()

	s.metrics.RecordStreamed(size)
	if s.hub != nil {
		s.hub.Publish(record)
	}
	return record
}

// Start begins appending one record per interval with the given filters.
func (s *MarketStore) Start(filters models.StreamFilters) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler != nil {
		return "", ErrStreamRunning
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := scheduler.AddFunc(schedule, func() { s.Tick() }); err != nil {
		return "", fmt.Errorf("ストリーミングの登録に失敗: %w", err)
	}

	s.filters = filters
	s.sessionID = uuid.New().String()
	s.startedAt = time.Now()
	s.scheduler = scheduler
	scheduler.Start()

	s.logger.Info("stream started",
		slog.String("session_id", s.sessionID),
		slog.Duration("interval", s.interval),
		slog.String("type", filters.Type),
		slog.String("location", filters.Location),
	)
	return s.sessionID, nil
}

// UpdateFilters changes the filters used by subsequent ticks.
func (s *MarketStore) UpdateFilters(filters models.StreamFilters) {
	s.mu.Lock()
	s.filters = filters
	s.mu.Unlock()
}

// Stop halts the stream and waits for an in-flight tick to finish.
func (s *MarketStore) Stop(ctx context.Context) error {
	s.mu.Lock()
	scheduler := s.scheduler
	sessionID := s.sessionID
	s.scheduler = nil
	s.sessionID = ""
	s.mu.Unlock()

	if scheduler == nil {
		return ErrStreamNotRunning
	}

	done := scheduler.Stop()
	select {
	case <-done.Done():
		s.logger.Info("stream stopped", slog.String("session_id", sessionID))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the stream state.
func (s *MarketStore) Status() models.StreamStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := models.StreamStatus{
		Running:   s.scheduler != nil,
		SessionID: s.sessionID,
		ScanCount: s.scanCount,
		Size:      len(s.data),
		Filters:   s.filters,
	}
	if status.Running {
		started := s.startedAt
		status.StartedAt = &started
	}
	return status
}
