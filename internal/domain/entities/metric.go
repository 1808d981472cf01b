package entities

import (
	"time"
)

// Metric is a single recorded telemetry sample. Metrics are append-only and
// retained in a bounded ring (oldest evicted first).
type Metric struct {
	Name      string                 `json:"name"`
	Value     float64                `json:"value"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// Alert records a threshold violation. Alerts are bounded and retained
// separately from raw metrics.
type Alert struct {
	ID        string    `json:"id"`
	Metric    string    `json:"metric"`
	Threshold float64   `json:"threshold"`
	Observed  float64   `json:"observed"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SLAThresholds is the fixed compliance configuration; immutable for the
// process lifetime.
type SLAThresholds struct {
	MedianLatencyMs float64 `json:"median_latency_ms"`
	P95LatencyMs    float64 `json:"p95_latency_ms"`
	P99LatencyMs    float64 `json:"p99_latency_ms"`
	MinCacheHitRate float64 `json:"min_cache_hit_rate"`
	MaxEmptyRate    float64 `json:"max_empty_search_rate"`
	MinLocationRate float64 `json:"min_location_rate"`
}

// LatencyReport summarizes observed search latencies in milliseconds
type LatencyReport struct {
	Median  float64 `json:"median"`
	P95     float64 `json:"p95"`
	P99     float64 `json:"p99"`
	Average float64 `json:"average"`
}

// SLAReport is the computed service-level snapshot
type SLAReport struct {
	Latency                LatencyReport   `json:"latency"`
	CacheHitRate           float64         `json:"cache_hit_rate"`
	EmptySearchRate        float64         `json:"empty_search_rate"`
	LocationPermissionRate float64         `json:"location_permission_rate"`
	ClickThroughRateByRank map[int]float64 `json:"click_through_rate_by_rank"`
	TotalSearches          int             `json:"total_searches"`
}

// PerformanceReport bundles the monitoring surface payload
type PerformanceReport struct {
	SLAMetrics    SLAReport `json:"sla_metrics"`
	Alerts        []Alert   `json:"alerts"`
	RecentMetrics []Metric  `json:"recent_metrics"`
}
