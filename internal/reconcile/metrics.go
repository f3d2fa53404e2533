package reconcile

import "github.com/prometheus/client_golang/prometheus"

// Action results recorded on groupsync_membership_actions_total.
const (
	resultOK       = "ok"
	resultSkipped  = "skipped"
	resultRetained = "retained"
	resultRefused  = "refused"
	resultFailed   = "failed"

	resultUnresolved = "unresolved"
)

type metrics struct {
	actions  *prometheus.CounterVec
	passes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groupsync",
			Name:      "membership_actions_total",
			Help:      "Membership decisions taken per (room, user) pair.",
		}, []string{"action", "result"}),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groupsync",
			Name:      "reconcile_passes_total",
			Help:      "Reconciliation passes run, by delta kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "groupsync",
			Name:      "reconcile_duration_seconds",
			Help:      "Wall time of one reconciliation pass.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.actions, m.passes, m.duration)
	}
	return m
}

func (m *metrics) action(action, result string) {
	m.actions.WithLabelValues(action, result).Inc()
}
