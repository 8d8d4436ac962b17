package services

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MarketMetrics は Prometheus 向けのメトリクスです。nil の場合は何も記録しません。
type MarketMetrics struct {
	registry        *prometheus.Registry
	streamedRecords prometheus.Counter
	datasetSize     prometheus.Gauge
	analysisRuns    *prometheus.CounterVec
	exports         prometheus.Counter
}

// NewMarketMetrics creates the collectors on a dedicated registry.
func NewMarketMetrics() *MarketMetrics {
	m := &MarketMetrics{
		registry: prometheus.NewRegistry(),
		streamedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coal_market",
			Name:      "streamed_records_total",
			Help:      "Records appended by the streaming generator.",
		}),
		datasetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coal_market",
			Name:      "dataset_size",
			Help:      "Number of records in the working dataset.",
		}),
		analysisRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coal_market",
			Name:      "analysis_reports_total",
			Help:      "Generated analysis reports by trend.",
		}, []string{"trend"}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coal_market",
			Name:      "exports_total",
			Help:      "Spreadsheet exports served.",
		}),
	}
	m.registry.MustRegister(m.streamedRecords, m.datasetSize, m.analysisRuns, m.exports)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *MarketMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MarketMetrics) RecordStreamed(size int) {
	if m == nil {
		return
	}
	m.streamedRecords.Inc()
	m.datasetSize.Set(float64(size))
}

func (m *MarketMetrics) SetDatasetSize(size int) {
	if m == nil {
		return
	}
	m.datasetSize.Set(float64(size))
}

func (m *MarketMetrics) RecordAnalysis(trend string) {
	if m == nil {
		return
	}
	m.analysisRuns.WithLabelValues(trend).Inc()
}

func (m *MarketMetrics) RecordExport() {
	if m == nil {
		return
	}
	m.exports.Inc()
}
