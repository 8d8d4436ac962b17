package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const maxLogEntries = 10000

// 集計対象から除外するパス
var unmonitoredPrefixes = []string{
	"/api/v1/admin",
	"/api/v1/monitoring",
	"/api/v1/market/stream/ws",
	"/metrics",
}

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// MonitoringService はAPIのリクエストログを保持します。
type MonitoringService struct {
	logs []LogEntry
	mu   sync.RWMutex
	loc  *time.Location
	now  func() time.Time
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService(loc *time.Location) *MonitoringService {
	if loc == nil {
		loc = time.UTC
	}
	return &MonitoringService{
		logs: make([]LogEntry, 0),
		loc:  loc,
		now:  time.Now,
	}
}

// LogRequest はリクエストを記録します。古いものから捨てます。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if over := len(s.logs) - maxLogEntries; over > 0 {
		s.logs = append([]LogEntry(nil), s.logs[over:]...)
	}
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		for _, prefix := range unmonitoredPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		s.LogRequest(LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// HourlyCount 1時間ごとのリクエスト数
type HourlyCount struct {
	Time     string `json:"time"`
	Requests int    `json:"requests"`
}

// EndpointLatency エンドポイントごとの平均応答時間（ミリ秒）
type EndpointLatency struct {
	Endpoint     string `json:"endpoint"`
	ResponseTime int64  `json:"responseTime"`
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	RequestsOverTime []HourlyCount     `json:"requestsOverTime"`
	Endpoints        map[string]int    `json:"endpoints"`
	StatusCodes      map[string]int    `json:"statusCodes"`
	AvgResponseTimes []EndpointLatency `json:"avgResponseTimes"`
	RecentErrors     []LogEntry        `json:"recentErrors"`
}

// GetDashboardData は直近 periodHours 時間のログを集計します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	if periodHours <= 0 {
		periodHours = 24
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().In(s.loc)
	since := now.Add(-time.Duration(periodHours) * time.Hour)
	currentHour := now.Truncate(time.Hour)

	buckets := make([]HourlyCount, periodHours)
	for i := range buckets {
		hour := currentHour.Add(-time.Duration(periodHours-1-i) * time.Hour)
		buckets[i] = HourlyCount{Time: hour.Format("15:00")}
	}

	data := DashboardData{
		Endpoints: make(map[string]int),
		StatusCodes: map[string]int{
			"2xx Success":      0,
			"4xx Client Error": 0,
			"5xx Server Error": 0,
		},
		RecentErrors: make([]LogEntry, 0),
	}
	latencySum := make(map[string]time.Duration)

	for _, entry := range s.logs {
		if !entry.Timestamp.After(since) {
			continue
		}
		idx := periodHours - 1 - int(currentHour.Sub(entry.Timestamp.In(s.loc).Truncate(time.Hour))/time.Hour)
		if idx >= 0 && idx < periodHours {
			buckets[idx].Requests++
		}
		data.Endpoints[entry.Path]++
		latencySum[entry.Path] += entry.ResponseTime

		switch {
		case entry.StatusCode >= 500:
			data.StatusCodes["5xx Server Error"]++
		case entry.StatusCode >= 400:
			data.StatusCodes["4xx Client Error"]++
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			data.StatusCodes["2xx Success"]++
		}
	}

	for path, total := range latencySum {
		data.AvgResponseTimes = append(data.AvgResponseTimes, EndpointLatency{
			Endpoint:     path,
			ResponseTime: total.Milliseconds() / int64(data.Endpoints[path]),
		})
	}
	sort.Slice(data.AvgResponseTimes, func(i, j int) bool {
		return data.AvgResponseTimes[i].Endpoint < data.AvgResponseTimes[j].Endpoint
	})

	// 新しい順に最大10件
	for i := len(s.logs) - 1; i >= 0 && len(data.RecentErrors) < 10; i-- {
		if s.logs[i].StatusCode >= 500 && s.logs[i].Timestamp.After(since) {
			data.RecentErrors = append(data.RecentErrors, s.logs[i])
		}
	}

	data.RequestsOverTime = buckets
	return data
}
