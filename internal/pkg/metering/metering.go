package metering

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/app/repository"
	"github.com/FelixBrandt/StackDroid/internal/pkg/metrics"
)

// Service records every product invocation for billing and analytics
// visibility. Metering is observability, not a gate: no method here ever
// fails the caller's request.
type Service struct {
	analytics repository.AnalyticsRepository
}

func NewService(analytics repository.AnalyticsRepository) *Service {
	return &Service{analytics: analytics}
}

// Record appends one usage record. Append failures are logged and counted,
// then dropped.
func (s *Service) Record(ctx context.Context, userID, productID, kind, outcome string) {
	rec := &models.UsageRecord{
		UserID:    userID,
		ProductID: productID,
		Kind:      kind,
		Outcome:   outcome,
		Timestamp: time.Now().UTC(),
	}
	if err := s.analytics.AppendUsage(ctx, rec); err != nil {
		log.Errorf("usage record write failed for user=%s product=%s: %v", userID, productID, err)
		metrics.UsageRecordFailuresTotal.Inc()
	}
	metrics.ExecutionsTotal.WithLabelValues(kind, outcome).Inc()
}

// TrackEvent appends a best-effort analytics event.
func (s *Service) TrackEvent(ctx context.Context, event string, data map[string]interface{}) {
	ev := &models.AnalyticsEvent{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := s.analytics.AppendEvent(ctx, ev); err != nil {
		log.Errorf("analytics event %q write failed: %v", event, err)
	}
}

// ReportAnomaly records an accounting mismatch between usage and balance
// debits. Anomalies are never silently dropped; they surface in the log,
// the anomaly counter and the analytics stream for reconciliation.
func (s *Service) ReportAnomaly(ctx context.Context, userID, productID, reason string, cause error) {
	log.Errorf("reconciliation anomaly user=%s product=%s reason=%s: %v", userID, productID, reason, cause)
	metrics.ReconciliationAnomalies.Inc()
	s.TrackEvent(ctx, "reconciliation_anomaly", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"reason":     reason,
	})
}
