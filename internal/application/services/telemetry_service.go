package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/providers"
)

const (
	maxRetainedMetrics = 1000
	maxRetainedAlerts  = 100

	metricSearchLatency = "search_latency"
	metricSearchClick   = "search_click"
)

// TelemetryService records search telemetry in bounded in-process rings and
// computes the SLA snapshot over them. Recording never blocks the search
// path: sink sends run detached and their failures are swallowed.
type TelemetryService struct {
	mu      sync.Mutex
	metrics []entities.Metric
	alerts  []entities.Alert

	thresholds entities.SLAThresholds
	sink       providers.TelemetrySink
	now        func() time.Time
}

// NewTelemetryService creates a telemetry service with the given thresholds
func NewTelemetryService(thresholds entities.SLAThresholds, sink providers.TelemetrySink) *TelemetryService {
	if sink == nil {
		sink = providers.NoopSink{}
	}
	return &TelemetryService{
		thresholds: thresholds,
		sink:       sink,
		now:        time.Now,
	}
}

// Record appends a metric sample, evicting the oldest past the retention
// bound, and ships it to the sink in the background.
func (s *TelemetryService) Record(name string, value float64, metricContext map[string]interface{}) {
	metric := entities.Metric{
		Name:      name,
		Value:     value,
		Timestamp: s.now(),
		Context:   metricContext,
	}

	s.mu.Lock()
	s.metrics = append(s.metrics, metric)
	if len(s.metrics) > maxRetainedMetrics {
		s.metrics = s.metrics[len(s.metrics)-maxRetainedMetrics:]
	}
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.sink.SendMetric(ctx, &metric); err != nil {
			log.Debug().Err(err).Str("metric", name).Msg("telemetry send failed")
		}
	}()
}

// RecordSearch records one completed search and re-evaluates the latency and
// cache-hit thresholds.
func (s *TelemetryService) RecordSearch(latency time.Duration, cacheHit, empty, hasLocation bool, query string) {
	s.Record(metricSearchLatency, float64(latency.Milliseconds()), map[string]interface{}{
		"cache_hit":    cacheHit,
		"empty":        empty,
		"has_location": hasLocation,
		"query":        query,
	})
	s.checkThresholds()
}

// RecordClick records a click on a ranked result (rank is zero-based)
func (s *TelemetryService) RecordClick(rank int, resultID string) {
	s.Record(metricSearchClick, float64(rank), map[string]interface{}{
		"rank":      rank,
		"result_id": resultID,
	})
}

// ComputeSLA computes the service-level snapshot over the retained samples
func (s *TelemetryService) ComputeSLA() entities.SLAReport {
	s.mu.Lock()
	metrics := make([]entities.Metric, len(s.metrics))
	copy(metrics, s.metrics)
	s.mu.Unlock()

	var latencies []float64
	var hits, empties, withLocation, searches int
	clicksByRank := make(map[int]int)

	for _, m := range metrics {
		switch m.Name {
		case metricSearchLatency:
			searches++
			latencies = append(latencies, m.Value)
			if contextBool(m.Context, "cache_hit") {
				hits++
			}
			if contextBool(m.Context, "empty") {
				empties++
			}
			if contextBool(m.Context, "has_location") {
				withLocation++
			}
		case metricSearchClick:
			clicksByRank[int(m.Value)]++
		}
	}

	report := entities.SLAReport{
		TotalSearches:          searches,
		ClickThroughRateByRank: make(map[int]float64, len(clicksByRank)),
	}

	if len(latencies) > 0 {
		sorted := make([]float64, len(latencies))
		copy(sorted, latencies)
		sort.Float64s(sorted)

		sum := 0.0
		for _, v := range sorted {
			sum += v
		}

		report.Latency = entities.LatencyReport{
			Median:  percentile(sorted, 0.5),
			P95:     percentile(sorted, 0.95),
			P99:     percentile(sorted, 0.99),
			Average: sum / float64(len(sorted)),
		}
	}

	if searches > 0 {
		report.CacheHitRate = float64(hits) / float64(searches)
		report.EmptySearchRate = float64(empties) / float64(searches)
		report.LocationPermissionRate = float64(withLocation) / float64(searches)
		for rank, clicks := range clicksByRank {
			report.ClickThroughRateByRank[rank] = float64(clicks) / float64(searches)
		}
	}

	return report
}

// CompliancePercentage reports what fraction of the SLA checks with at least
// one sample currently pass, as 0..100. No evaluable checks reports 100.
func (s *TelemetryService) CompliancePercentage() float64 {
	report := s.ComputeSLA()

	var evaluated, passed int
	check := func(ok bool) {
		evaluated++
		if ok {
			passed++
		}
	}

	if report.TotalSearches > 0 {
		check(report.Latency.Median <= s.thresholds.MedianLatencyMs)
		check(report.Latency.P95 <= s.thresholds.P95LatencyMs)
		check(report.Latency.P99 <= s.thresholds.P99LatencyMs)
		check(report.CacheHitRate >= s.thresholds.MinCacheHitRate)
		check(report.EmptySearchRate <= s.thresholds.MaxEmptyRate)
		check(report.LocationPermissionRate >= s.thresholds.MinLocationRate)
	}

	if evaluated == 0 {
		return 100
	}
	return float64(passed) / float64(evaluated) * 100
}

// Report bundles the monitoring surface payload
func (s *TelemetryService) Report() entities.PerformanceReport {
	s.mu.Lock()
	alerts := make([]entities.Alert, len(s.alerts))
	copy(alerts, s.alerts)
	recent := make([]entities.Metric, len(s.metrics))
	copy(recent, s.metrics)
	s.mu.Unlock()

	return entities.PerformanceReport{
		SLAMetrics:    s.ComputeSLA(),
		Alerts:        alerts,
		RecentMetrics: recent,
	}
}

func (s *TelemetryService) checkThresholds() {
	report := s.ComputeSLA()
	if report.TotalSearches == 0 {
		return
	}

	if report.Latency.Median > s.thresholds.MedianLatencyMs {
		s.raiseAlert("median_latency_ms", s.thresholds.MedianLatencyMs, report.Latency.Median)
	}
	if report.Latency.P95 > s.thresholds.P95LatencyMs {
		s.raiseAlert("p95_latency_ms", s.thresholds.P95LatencyMs, report.Latency.P95)
	}
	if report.CacheHitRate < s.thresholds.MinCacheHitRate {
		s.raiseAlert("cache_hit_rate", s.thresholds.MinCacheHitRate, report.CacheHitRate)
	}
}

func (s *TelemetryService) raiseAlert(metric string, threshold, observed float64) {
	alert := entities.Alert{
		ID:        uuid.New().String(),
		Metric:    metric,
		Threshold: threshold,
		Observed:  observed,
		Message:   fmt.Sprintf("%s at %.2f violates threshold %.2f", metric, observed, threshold),
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.alerts = append(s.alerts, alert)
	if len(s.alerts) > maxRetainedAlerts {
		s.alerts = s.alerts[len(s.alerts)-maxRetainedAlerts:]
	}
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.sink.SendAlert(ctx, &alert); err != nil {
			log.Debug().Err(err).Str("metric", metric).Msg("alert send failed")
		}
	}()
}

// percentile returns sorted[floor(n*p)], index clamped to the last element.
// The estimator is deliberately the plain sorted-index lookup; it is biased
// for small sample counts.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func contextBool(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	v, ok := m[key].(bool)
	return ok && v
}
