package push

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome is the fate of one push event.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeFiltered  Outcome = "filtered"
	OutcomeStale     Outcome = "stale"
	OutcomeMalformed Outcome = "malformed"
)

func (o Outcome) String() string { return string(o) }

// Metrics counts handled push events by kind and outcome.
type Metrics struct {
	events *prometheus.CounterVec
}

// NewMetrics creates the push counters and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamqueries",
			Name:      "push_events_total",
			Help:      "Push events handled, by event kind and outcome.",
		}, []string{"event", "outcome"}),
	}
}

func (m *Metrics) observe(kind Kind, outcome Outcome) {
	if m == nil {
		return
	}
	event := kind.String()
	if !kind.IsValid() {
		event = "unknown"
	}
	m.events.WithLabelValues(event, outcome.String()).Inc()
}
