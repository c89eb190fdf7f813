package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the registration engine.
type Metrics struct {
	ApplicationNumbersAllocated prometheus.Counter
	CandidatesPromoted          prometheus.Counter
	SessionsCreated             prometheus.Counter
	SessionsExtended            prometheus.Counter
	SessionsPurged              prometheus.Counter
	OutboxEnqueued              *prometheus.CounterVec
	OutboxDropped               prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ApplicationNumbersAllocated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "concours_application_numbers_allocated_total",
			Help: "Total number of application numbers allocated.",
		}),
		CandidatesPromoted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "concours_candidates_promoted_total",
			Help: "Total number of candidates promoted to validated.",
		}),
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "concours_sessions_created_total",
			Help: "Total number of sessions created.",
		}),
		SessionsExtended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "concours_sessions_extended_total",
			Help: "Total number of sessions extended instead of recreated.",
		}),
		SessionsPurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "concours_sessions_purged_total",
			Help: "Total number of expired sessions purged.",
		}),
		OutboxEnqueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "concours_outbox_enqueued_total",
			Help: "Total number of outbox events enqueued, by kind.",
		}, []string{"kind"}),
		OutboxDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "concours_outbox_dropped_total",
			Help: "Total number of outbox events dropped because the queue was full.",
		}),
	}
}

func (m *Metrics) IncAllocated() { m.ApplicationNumbersAllocated.Inc() }
func (m *Metrics) IncPromoted()  { m.CandidatesPromoted.Inc() }

func (m *Metrics) IncSessionCreated()  { m.SessionsCreated.Inc() }
func (m *Metrics) IncSessionExtended() { m.SessionsExtended.Inc() }

// AddSessionsPurged records how many rows a purge pass deleted.
func (m *Metrics) AddSessionsPurged(n int64) { m.SessionsPurged.Add(float64(n)) }

func (m *Metrics) IncOutboxEnqueued(kind string) { m.OutboxEnqueued.WithLabelValues(kind).Inc() }
func (m *Metrics) IncOutboxDropped()             { m.OutboxDropped.Inc() }
