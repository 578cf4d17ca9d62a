package rpc

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rpc"

// metrics is nil when the participant was built without SetMetrics; every
// recording method accepts a nil receiver.
type metrics struct {
	requestsSent     *prometheus.CounterVec
	requestsTaken    *prometheus.CounterVec
	repliesSent      *prometheus.CounterVec
	repliesTaken     *prometheus.CounterVec
	repliesDiscarded *prometheus.CounterVec
	outstanding      *prometheus.GaugeVec
	creationFailures *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requestsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_sent_total",
				Help:      "Total number of requests written by requesters",
			},
			[]string{"service"},
		),
		requestsTaken: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_taken_total",
				Help:      "Total number of requests taken by repliers",
			},
			[]string{"service"},
		),
		repliesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replies_sent_total",
				Help:      "Total number of replies written by repliers",
			},
			[]string{"service"},
		),
		repliesTaken: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replies_taken_total",
				Help:      "Total number of replies handed to requesters",
			},
			[]string{"service"},
		),
		repliesDiscarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replies_discarded_total",
				Help:      "Replies dropped by a requester after the token check",
			},
			[]string{"service", "reason"},
		),
		outstanding: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "outstanding_requests",
				Help:      "Request tokens currently admitted to reply filters",
			},
			[]string{"service"},
		),
		creationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entity_creation_failures_total",
				Help:      "Endpoints refused by validation or substrate failures",
			},
			[]string{"service", "kind"},
		),
	}

	var err error
	if m.requestsSent, err = register(reg, m.requestsSent); err != nil {
		return nil, err
	}
	if m.requestsTaken, err = register(reg, m.requestsTaken); err != nil {
		return nil, err
	}
	if m.repliesSent, err = register(reg, m.repliesSent); err != nil {
		return nil, err
	}
	if m.repliesTaken, err = register(reg, m.repliesTaken); err != nil {
		return nil, err
	}
	if m.repliesDiscarded, err = register(reg, m.repliesDiscarded); err != nil {
		return nil, err
	}
	if m.outstanding, err = register(reg, m.outstanding); err != nil {
		return nil, err
	}
	if m.creationFailures, err = register(reg, m.creationFailures); err != nil {
		return nil, err
	}
	return m, nil
}

// register reuses a collector registered by another participant on the
// same registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegErr) {
			if existing, ok := alreadyRegErr.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) requestSent(service string) {
	if m == nil {
		return
	}
	m.requestsSent.WithLabelValues(service).Inc()
	m.outstanding.WithLabelValues(service).Inc()
}

func (m *metrics) requestTaken(service string, n int) {
	if m == nil {
		return
	}
	m.requestsTaken.WithLabelValues(service).Add(float64(n))
}

func (m *metrics) replySent(service string) {
	if m == nil {
		return
	}
	m.repliesSent.WithLabelValues(service).Inc()
}

func (m *metrics) replyTaken(service string) {
	if m == nil {
		return
	}
	m.repliesTaken.WithLabelValues(service).Inc()
}

func (m *metrics) replyDiscarded(service, reason string) {
	if m == nil {
		return
	}
	m.repliesDiscarded.WithLabelValues(service, reason).Inc()
}

func (m *metrics) tokensReleased(service string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.outstanding.WithLabelValues(service).Sub(float64(n))
}

func (m *metrics) creationFailed(service, kind string) {
	if m == nil {
		return
	}
	m.creationFailures.WithLabelValues(service, kind).Inc()
}
