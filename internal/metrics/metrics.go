package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kinbot"

// Metrics is safe to use through a nil pointer, which records nothing.
type Metrics struct {
	chatTurns   *prometheus.CounterVec
	recaps      *prometheus.CounterVec
	completions *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_turns_total",
			Help:      "Chat turns by result.",
		}, []string{"result"}),
		recaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recaps_total",
			Help:      "Recap attempts by outcome.",
		}, []string{"outcome"}),
		completions: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Completion call latency by result.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.chatTurns, m.recaps, m.completions)
	}
	return m
}

func (m *Metrics) ObserveChatTurn(err error) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(result(err)).Inc()
}

// ObserveRecap takes one of "created", "skipped" or "failed".
func (m *Metrics) ObserveRecap(outcome string) {
	if m == nil {
		return
	}
	m.recaps.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCompletion(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(result(err)).Observe(elapsed.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
