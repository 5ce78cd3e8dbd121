// Package metrics exposes reconciliation runs as Prometheus series.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fastprodman/finrecon/internal/services/recon"
)

const namespace = "recon"

type Recorder struct {
	runs          *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	available     *prometheus.GaugeVec
	alertRaised   *prometheus.GaugeVec
	truncated     *prometheus.GaugeVec
	negative      *prometheus.GaugeVec
	lastSuccess   *prometheus.GaugeVec
	publishErrors prometheus.Counter
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)

	return &Recorder{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Reconciliation runs by preset and outcome.",
		}, []string{"preset", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one reconciliation run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}, []string{"preset"}),
		available: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "available_to_operator_minor",
			Help:      "Real cash minus committed principal, in minor units.",
		}, []string{"preset"}),
		alertRaised: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alert_raised",
			Help:      "1 while the named alert is raised in the last good snapshot.",
		}, []string{"preset", "alert"}),
		truncated: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_truncated",
			Help:      "1 when the last good snapshot hit the row cap.",
		}, []string{"preset"}),
		negative: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "negative_balance_wallets",
			Help:      "Wallets with a negative stored balance in the last good snapshot.",
		}, []string{"preset"}),
		lastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}, []string{"preset"}),
		publishErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Alert change events that could not be published.",
		}),
	}
}

func (r *Recorder) RunSucceeded(preset string, snap recon.Snapshot, elapsed time.Duration) {
	r.runs.WithLabelValues(preset, "ok").Inc()
	r.duration.WithLabelValues(preset).Observe(elapsed.Seconds())
	r.available.WithLabelValues(preset).Set(float64(snap.Cash.AvailableToOperator))
	r.truncated.WithLabelValues(preset).Set(boolGauge(snap.Truncated))
	r.negative.WithLabelValues(preset).Set(float64(len(snap.NegativeBalanceWallets)))
	r.lastSuccess.WithLabelValues(preset).Set(float64(snap.ComputedAt.Unix()))

	r.alertRaised.WithLabelValues(preset, recon.AlertInsufficientCash).Set(boolGauge(snap.Alerts.InsufficientCash))
	r.alertRaised.WithLabelValues(preset, recon.AlertBonusRatioHigh).Set(boolGauge(snap.Alerts.BonusRatioHigh))
	r.alertRaised.WithLabelValues(preset, recon.AlertRTPLow).Set(boolGauge(snap.Alerts.RTPLow))
}

// RunFailed leaves the gauges of the last good snapshot untouched.
func (r *Recorder) RunFailed(preset string, elapsed time.Duration) {
	r.runs.WithLabelValues(preset, "error").Inc()
	r.duration.WithLabelValues(preset).Observe(elapsed.Seconds())
}

func (r *Recorder) PublishFailed() {
	r.publishErrors.Inc()
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
