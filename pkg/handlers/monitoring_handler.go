package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"coal-market-api/pkg/services"

	"github.com/gin-gonic/gin"
)

const maxPeriodHours = 24 * 30

// MonitoringHandler はモニタリング関連の操作のハンドラです。
type MonitoringHandler struct {
	service *services.MonitoringService
}

// NewMonitoringHandler は新しいMonitoringHandlerを生成します。
func NewMonitoringHandler(service *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{service: service}
}

// periodHours は "1h" / "24h" / "7d" 形式の期間を時間数に変換します。不正値は24時間。
func periodHours(period string) int {
	unit := 1
	switch {
	case strings.HasSuffix(period, "d"):
		unit = 24
		period = strings.TrimSuffix(period, "d")
	case strings.HasSuffix(period, "h"):
		period = strings.TrimSuffix(period, "h")
	}
	n, err := strconv.Atoi(period)
	if err != nil || n <= 0 {
		return 24
	}
	if hours := n * unit; hours < maxPeriodHours {
		return hours
	}
	return maxPeriodHours
}

// GetLogs は集計されたリクエストログを返します。
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	hours := periodHours(c.DefaultQuery("period", "24h"))
	c.JSON(http.StatusOK, h.service.GetDashboardData(hours))
}
