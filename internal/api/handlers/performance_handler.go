package handlers

import (
	"net/http"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

// PerformanceReporter defines the telemetry operations used by the handler
type PerformanceReporter interface {
	Report() entities.PerformanceReport
	CompliancePercentage() float64
}

// PerformanceHandler serves the SLA monitoring surface
type PerformanceHandler struct {
	telemetry PerformanceReporter
}

// NewPerformanceHandler creates a new performance handler
func NewPerformanceHandler(telemetry PerformanceReporter) *PerformanceHandler {
	return &PerformanceHandler{telemetry: telemetry}
}

// GetReport handles GET /api/performance
func (h *PerformanceHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report := h.telemetry.Report()

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sla_metrics":    report.SLAMetrics,
		"alerts":         report.Alerts,
		"recent_metrics": report.RecentMetrics,
	})
}

// GetCompliance handles GET /api/performance/compliance
func (h *PerformanceHandler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"compliance_percentage": h.telemetry.CompliancePercentage(),
	})
}
