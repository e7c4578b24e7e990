package events

import (
	"time"

	"stockpulse/internal/analytics"

	"github.com/google/uuid"
)

const (
	DefaultTopic = "stock-insights"

	EventTypeStockAlert = "stock.alert"
	EventTypeSalesAlert = "sales.alert"
)

// InsightEvent carries one warning insight of a tenant dashboard to downstream consumers.
type InsightEvent struct {
	EventID     string                  `json:"event_id"`
	EventType   string                  `json:"event_type"`
	TenantID    uuid.UUID               `json:"tenant_id"`
	Timestamp   time.Time               `json:"timestamp"`
	GeneratedAt time.Time               `json:"generated_at"`
	Insight     analytics.Insight       `json:"insight"`
	Products    []analytics.StockMetric `json:"products,omitempty"`
}
