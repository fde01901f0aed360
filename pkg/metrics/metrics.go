package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agromarket"

var (
	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders created.",
	})

	OrderTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Order status transitions by target status.",
	}, []string{"to"})

	PaymentIntents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_intents_total",
		Help:      "Payment intent writes by resulting status.",
	}, []string{"status"})

	RatingsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_submitted_total",
		Help:      "Ratings recorded.",
	})

	CommentsPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_posted_total",
		Help:      "Comments written on products or listings.",
	})

	MembershipsAssigned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "memberships_assigned_total",
		Help:      "Membership assignments created or renewed.",
	})

	ExpiredRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expired_records_total",
		Help:      "Records flipped to expired, by kind.",
	}, []string{"kind"})

	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(
		OrdersCreated,
		OrderTransitions,
		PaymentIntents,
		RatingsSubmitted,
		CommentsPosted,
		MembershipsAssigned,
		ExpiredRecords,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// Registry exposes the collectors registered by this package.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
