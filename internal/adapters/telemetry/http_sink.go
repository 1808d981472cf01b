package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/providers"
	apperrors "github.com/hanaihang/mallsearch/pkg/errors"
)

// HTTPSink ships metrics and alerts to an external collector over HTTP.
// A circuit breaker keeps a flapping collector from slowing the senders;
// while the breaker is open, sends fail fast.
type HTTPSink struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
}

var _ providers.TelemetrySink = (*HTTPSink)(nil)

// NewHTTPSink creates a telemetry sink posting to endpoint
func NewHTTPSink(endpoint string, timeout time.Duration) *HTTPSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "telemetry-sink",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &HTTPSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		breaker:  breaker,
	}
}

// SendMetric posts a metric record to the collector
func (s *HTTPSink) SendMetric(ctx context.Context, metric *entities.Metric) error {
	return s.post(ctx, s.endpoint+"/metrics", metric)
}

// SendAlert posts an alert record to the collector
func (s *HTTPSink) SendAlert(ctx context.Context, alert *entities.Alert) error {
	return s.post(ctx, s.endpoint+"/alerts", alert)
}

func (s *HTTPSink) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewTelemetryError("failed to encode telemetry payload", err)
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("collector returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		return apperrors.NewTelemetryError("failed to send telemetry", err)
	}

	return nil
}
