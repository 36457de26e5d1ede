// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CampaignsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaigns_created_total",
			Help: "Total number of campaigns created",
		},
		[]string{"selection_mode"},
	)

	CampaignTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_transitions_total",
			Help: "Total number of campaign status transitions",
		},
		[]string{"to"},
	)

	ProgressDriversActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campaign_progress_drivers_active",
			Help: "Number of running progress drivers",
		},
	)

	ProgressWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_progress_write_failures_total",
			Help: "Progress writes that stopped a driver",
		},
	)

	LinksGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deep_links_generated_total",
			Help: "Total number of deep links generated",
		},
		[]string{"kind"},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Authentication attempts by operation and result code",
		},
		[]string{"op", "result"},
	)
)
