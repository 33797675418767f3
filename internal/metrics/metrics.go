package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "staybook"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	summarySource = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_summary_total",
			Help:      "Dashboard summaries served by source (remote, computed, unavailable).",
		},
		[]string{"source"},
	)

	sourceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetch_failures_total",
			Help:      "Failed upstream collection fetches by collection.",
		},
		[]string{"collection"},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_conflicts_total",
			Help:      "Proposed stays rejected because the dates are blocked.",
		},
	)

	ordersConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_confirmed_total",
			Help:      "Food orders confirmed.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, summarySource, sourceFailures, reservationConflicts, ordersConfirmed)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncSummarySource(source string) {
	summarySource.WithLabelValues(source).Inc()
}

func IncSourceFailure(collection string) {
	sourceFailures.WithLabelValues(collection).Inc()
}

func IncReservationConflict() {
	reservationConflicts.Inc()
}

func IncOrderConfirmed() {
	ordersConfirmed.Inc()
}
