package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

type stubReporter struct {
	report     entities.PerformanceReport
	compliance float64
}

func (s *stubReporter) Report() entities.PerformanceReport { return s.report }
func (s *stubReporter) CompliancePercentage() float64      { return s.compliance }

func TestPerformanceHandler_GetReport(t *testing.T) {
	reporter := &stubReporter{
		report: entities.PerformanceReport{
			SLAMetrics: entities.SLAReport{
				TotalSearches: 12,
				CacheHitRate:  0.5,
			},
			Alerts: []entities.Alert{{ID: "a1", Metric: "p95_latency_ms"}},
		},
	}
	handler := NewPerformanceHandler(reporter)

	req := httptest.NewRequest(http.MethodGet, "/api/performance", nil)
	rr := httptest.NewRecorder()
	handler.GetReport(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		SLAMetrics entities.SLAReport `json:"sla_metrics"`
		Alerts     []entities.Alert   `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 12, body.SLAMetrics.TotalSearches)
	require.Len(t, body.Alerts, 1)
	assert.Equal(t, "p95_latency_ms", body.Alerts[0].Metric)
}

func TestPerformanceHandler_GetCompliance(t *testing.T) {
	handler := NewPerformanceHandler(&stubReporter{compliance: 83.33})

	req := httptest.NewRequest(http.MethodGet, "/api/performance/compliance", nil)
	rr := httptest.NewRecorder()
	handler.GetCompliance(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]float64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.InDelta(t, 83.33, body["compliance_percentage"], 1e-9)
}
