package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the conversation flow.
type BotMetrics struct {
	inboundTotal    *prometheus.CounterVec
	transitionTotal *prometheus.CounterVec
	rankingTotal    *prometheus.CounterVec
	intentFailures  *prometheus.CounterVec
	webhookLatency  *prometheus.HistogramVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twotravel",
			Subsystem: "bot",
			Name:      "inbound_total",
			Help:      "Total inbound WhatsApp events",
		}, []string{"kind", "status"}),
		transitionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twotravel",
			Subsystem: "bot",
			Name:      "step_transitions_total",
			Help:      "Conversation step transitions",
		}, []string{"from", "to"}),
		rankingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twotravel",
			Subsystem: "bot",
			Name:      "ranking_total",
			Help:      "Catalog ranking outcomes",
		}, []string{"service", "outcome"}),
		intentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twotravel",
			Subsystem: "bot",
			Name:      "intent_failures_total",
			Help:      "Collaborator intent dispatch failures",
		}, []string{"intent"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "twotravel",
			Subsystem: "bot",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of WhatsApp webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.transitionTotal, m.rankingTotal, m.intentFailures, m.webhookLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(kind, status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind, status).Inc()
}

func (m *BotMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitionTotal.WithLabelValues(from, to).Inc()
}

func (m *BotMetrics) ObserveRanking(service string, empty bool) {
	if m == nil {
		return
	}
	outcome := "results"
	if empty {
		outcome = "empty"
	}
	m.rankingTotal.WithLabelValues(service, outcome).Inc()
}

func (m *BotMetrics) ObserveIntentFailure(intent string) {
	if m == nil {
		return
	}
	m.intentFailures.WithLabelValues(intent).Inc()
}

func (m *BotMetrics) ObserveWebhookLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(kind).Observe(seconds)
}
