package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outdoormatch_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outdoormatch_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	matchChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outdoormatch_match_checks_total",
			Help: "Match checks by outcome.",
		},
		[]string{"outcome"},
	)
	chatsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outdoormatch_chats_created_total",
			Help: "Chats created by mutual matches.",
		},
	)
	availabilityTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outdoormatch_availability_toggles_total",
			Help: "Availability toggles by direction and result.",
		},
		[]string{"present", "result"},
	)
	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outdoormatch_messages_sent_total",
			Help: "Chat messages appended.",
		},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outdoormatch_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outdoormatch_cache_lookups_total",
			Help: "Community list cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		matchChecksTotal,
		chatsCreatedTotal,
		availabilityTogglesTotal,
		messagesSentTotal,
		wsActiveConnections,
		cacheLookupsTotal,
	)
}

func ObserveHTTP(method, route, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(seconds)
}

// IncMatchCheck counts a check; outcome is pending, matched or error.
func IncMatchCheck(outcome string) {
	matchChecksTotal.WithLabelValues(outcome).Inc()
}

func IncChatCreated() {
	chatsCreatedTotal.Inc()
}

func IncAvailabilityToggle(present bool, result string) {
	label := "false"
	if present {
		label = "true"
	}
	availabilityTogglesTotal.WithLabelValues(label, result).Inc()
}

func IncMessageSent() {
	messagesSentTotal.Inc()
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncCacheLookup(result string) {
	cacheLookupsTotal.WithLabelValues(result).Inc()
}
