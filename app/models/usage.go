package models

import "time"

const (
	USAGE_OUTCOME_SUCCESS = "success"
	USAGE_OUTCOME_FAILED  = "failed"
)

// UsageRecord is one append-only invocation log entry. It is write-only for
// the engine; analytics read it out of band.
type UsageRecord struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Kind      string    `json:"kind"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalyticsEvent is a best-effort side-channel event, date-bucketed in the
// store. Not an authoritative financial ledger.
type AnalyticsEvent struct {
	Event     string                 `json:"event"`
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}
