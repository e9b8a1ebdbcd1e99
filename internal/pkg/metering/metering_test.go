package metering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/internal/pkg/metrics"
)

func init() {
	metrics.Init()
}

type recordingAnalytics struct {
	usage  []*models.UsageRecord
	events []*models.AnalyticsEvent

	usageErr error
	eventErr error
}

func (r *recordingAnalytics) AppendUsage(ctx context.Context, rec *models.UsageRecord) error {
	if r.usageErr != nil {
		return r.usageErr
	}
	r.usage = append(r.usage, rec)
	return nil
}

func (r *recordingAnalytics) AppendEvent(ctx context.Context, ev *models.AnalyticsEvent) error {
	if r.eventErr != nil {
		return r.eventErr
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingAnalytics) AddRevenue(ctx context.Context, date string, cents int64) error {
	return nil
}

func (r *recordingAnalytics) RevenueByDay(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func (r *recordingAnalytics) UsageCount(ctx context.Context, userID, productID string) (int64, error) {
	return 0, nil
}

func (r *recordingAnalytics) TotalUsage(ctx context.Context) (int64, error) { return 0, nil }

func TestRecordAppendsUsage(t *testing.T) {
	t.Parallel()

	analytics := &recordingAnalytics{}
	svc := NewService(analytics)

	svc.Record(context.Background(), "u1", "linkedin-lead-gen", models.KIND_AUTOMATION, models.USAGE_OUTCOME_SUCCESS)

	if assert.Len(t, analytics.usage, 1) {
		rec := analytics.usage[0]
		assert.Equal(t, "u1", rec.UserID)
		assert.Equal(t, "linkedin-lead-gen", rec.ProductID)
		assert.Equal(t, models.USAGE_OUTCOME_SUCCESS, rec.Outcome)
		assert.False(t, rec.Timestamp.IsZero())
	}
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	t.Parallel()

	analytics := &recordingAnalytics{usageErr: errors.New("store down")}
	svc := NewService(analytics)

	// Metering must never fail an execution that already happened.
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), "u1", "linkedin-lead-gen", models.KIND_AUTOMATION, models.USAGE_OUTCOME_FAILED)
	})
}

func TestTrackEventSwallowsStoreFailure(t *testing.T) {
	t.Parallel()

	analytics := &recordingAnalytics{eventErr: errors.New("store down")}
	svc := NewService(analytics)

	assert.NotPanics(t, func() {
		svc.TrackEvent(context.Background(), "user_signup", map[string]interface{}{"user_id": "u1"})
	})
}

func TestReportAnomalyEmitsEvent(t *testing.T) {
	t.Parallel()

	analytics := &recordingAnalytics{}
	svc := NewService(analytics)

	svc.ReportAnomaly(context.Background(), "u1", "linkedin-lead-gen", "refund_failed", errors.New("timeout"))

	if assert.Len(t, analytics.events, 1) {
		ev := analytics.events[0]
		assert.Equal(t, "reconciliation_anomaly", ev.Event)
		assert.Equal(t, "refund_failed", ev.Data["reason"])
	}
}
