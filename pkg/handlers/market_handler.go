package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"coal-market-api/pkg/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MarketHandler 煤炭市場データのハンドラー
type MarketHandler struct {
	engine  *services.MarketAnalyticsService
	store   *services.MarketStore
	export  *services.ExportService
	metrics *services.MarketMetrics
}

// NewMarketHandler 新しい市場データハンドラーを作成
func NewMarketHandler(engine *services.MarketAnalyticsService, store *services.MarketStore, export *services.ExportService, metrics *services.MarketMetrics) *MarketHandler {
	return &MarketHandler{
		engine:  engine,
		store:   store,
		export:  export,
		metrics: metrics,
	}
}

// GetRecords 絞り込み後のレコードと集計値を返す
func (h *MarketHandler) GetRecords(c *gin.Context) {
	criteria, _, ok := bindFilter(c, h.engine)
	if !ok {
		return
	}
	filtered, stats := h.engine.FilterAndAggregate(h.store.Snapshot(), criteria)
	respondOK(c, gin.H{
		"records": filtered,
		"stats":   stats,
	})
}

// GetStats 集計値のみを返す
func (h *MarketHandler) GetStats(c *gin.Context) {
	criteria, _, ok := bindFilter(c, h.engine)
	if !ok {
		return
	}
	_, stats := h.engine.FilterAndAggregate(h.store.Snapshot(), criteria)
	respondOK(c, stats)
}

// GetSeries チャート用の系列（MA5/MA10付き）を返す
func (h *MarketHandler) GetSeries(c *gin.Context) {
	criteria, _, ok := bindFilter(c, h.engine)
	if !ok {
		return
	}
	filtered, _ := h.engine.FilterAndAggregate(h.store.Snapshot(), criteria)
	respondOK(c, h.engine.PrepareChartSeries(filtered))
}

// GetAnalysis 絞り込み範囲の分析レポートを返す
func (h *MarketHandler) GetAnalysis(c *gin.Context) {
	criteria, q, ok := bindFilter(c, h.engine)
	if !ok {
		return
	}
	filtered, _ := h.engine.FilterAndAggregate(h.store.Snapshot(), criteria)
	report := h.engine.GenerateAIAnalysis(filtered, q.Start, q.End, h.store.Policies(), h.store.Prediction())
	h.metrics.RecordAnalysis(report.Trend)
	respondOK(c, report)
}

// GetAnomalies 絞り込み範囲の価格異常を返す（granularity=daily|weekly|monthly）
func (h *MarketHandler) GetAnomalies(c *gin.Context) {
	criteria, _, ok := bindFilter(c, h.engine)
	if !ok {
		return
	}
	granularity := c.DefaultQuery("granularity", services.GranularityWeekly)
	if !services.IsValidGranularity(granularity) {
		respondError(c, http.StatusBadRequest, fmt.Errorf("granularity は daily, weekly, monthly のいずれかです: %q", granularity))
		return
	}
	filtered, _ := h.engine.FilterAndAggregate(h.store.Snapshot(), criteria)
	respondOK(c, h.engine.DetectPriceAnomalies(filtered, granularity))
}

// GetPrediction 翌日予測を返す。refresh=true で現在のデータセットから再計算
func (h *MarketHandler) GetPrediction(c *gin.Context) {
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); !refresh {
		if cached := h.store.Prediction(); cached != nil {
			respondOK(c, cached)
			return
		}
	}
	prediction, err := h.store.RefreshPrediction()
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err)
		return
	}
	respondOK(c, prediction)
}

// GetPolicies 政策ニュースを返す
func (h *MarketHandler) GetPolicies(c *gin.Context) {
	respondOK(c, h.store.Policies())
}

// GetCatalog 煤種・地点の選択肢を返す
func (h *MarketHandler) GetCatalog(c *gin.Context) {
	respondOK(c, h.engine.Catalog())
}

// GetQuickRange 直近N日の期間ラベルを返す（7, 30, 90, 365=今年）
func (h *MarketHandler) GetQuickRange(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || (days != 7 && days != 30 && days != 90 && days != 365) {
		respondError(c, http.StatusBadRequest, errors.New("days は 7, 30, 90, 365 のいずれかを指定してください"))
		return
	}
	start, end := h.engine.QuickDateRange(days)
	respondOK(c, gin.H{"start": start, "end": end, "days": days})
}

// ExportWorkbook 期間内の全レコードを xlsx でダウンロードさせる
func (h *MarketHandler) ExportWorkbook(c *gin.Context) {
	loc := h.engine.Location()
	startLabel := c.Query("start")
	endLabel := c.Query("end")
	start, err := services.ParseDate(startLabel, loc)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := services.ParseDate(endLabel, loc)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	count, err := h.export.WriteWorkbook(&buf, h.store.Snapshot(), start, end)
	if errors.Is(err, services.ErrNoExportData) {
		respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	name := services.ExportFileName(startLabel, endLabel)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(name)))
	c.Header("X-Export-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
