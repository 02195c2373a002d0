package relay

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts relay outcomes per topic.
type Metrics struct {
	Relayed *prometheus.CounterVec
	Batches prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Relayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "product_service",
			Subsystem: "relay",
			Name:      "messages_total",
			Help:      "Outbox messages handed to Kafka by topic and result.",
		}, []string{"topic", "result"}),
		Batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "product_service",
			Subsystem: "relay",
			Name:      "batches_total",
			Help:      "Non-empty outbox batches processed.",
		}),
	}

	reg.MustRegister(m.Relayed, m.Batches)

	return m
}

func (m *Metrics) observe(topic string, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Relayed.WithLabelValues(topic, result).Inc()
}

func (m *Metrics) batch() {
	if m != nil {
		m.Batches.Inc()
	}
}

type Option func(*Service)

// WithMetrics records relay outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}
