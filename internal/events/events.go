// Package events announces reconciliation alert changes to other services.
package events

import (
	"context"
	"time"
)

const RoutingAlertsChanged = "recon.alerts.changed"

// AlertsChanged is published when the set of raised alerts for a preset
// differs from the previous successful run.
type AlertsChanged struct {
	EventID             string    `json:"event_id"`
	Preset              string    `json:"preset"`
	RangeLabel          string    `json:"range_label"`
	ComputedAt          time.Time `json:"computed_at"`
	Raised              []string  `json:"raised"`
	Cleared             []string  `json:"cleared"`
	Active              []string  `json:"active"`
	AvailableToOperator int64     `json:"available_to_operator"`
}

type Publisher interface {
	PublishAlertsChanged(ctx context.Context, ev AlertsChanged) error
	Close() error
}
