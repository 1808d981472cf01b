package providers

import (
	"context"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

// TelemetrySink receives metric and alert records. Implementations are called
// from detached goroutines; send failures must never reach the search path.
type TelemetrySink interface {
	SendMetric(ctx context.Context, metric *entities.Metric) error
	SendAlert(ctx context.Context, alert *entities.Alert) error
}

// NoopSink discards everything; used when no sink endpoint is configured
type NoopSink struct{}

func (NoopSink) SendMetric(ctx context.Context, metric *entities.Metric) error { return nil }
func (NoopSink) SendAlert(ctx context.Context, alert *entities.Alert) error    { return nil }
