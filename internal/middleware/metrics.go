package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP and domain metrics, registered in the default Prometheus registry
// and exposed via the /metrics endpoint in cmd/server.
var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitmoney_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "splitmoney_http_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ExpensesCreated counts recorded expenses by split method.
	ExpensesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitmoney_expenses_created_total",
			Help: "Total number of expenses created by split method",
		},
		[]string{"split_method"},
	)

	// GroupsCreated counts created groups.
	GroupsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitmoney_groups_created_total",
			Help: "Total number of groups created",
		},
	)

	// BalancesComputed counts balance engine invocations by scope
	// (group or user).
	BalancesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitmoney_balances_computed_total",
			Help: "Total number of balance computations by scope",
		},
		[]string{"scope"},
	)
)

// Metrics returns a middleware that records request counts and durations.
// The route pattern is used as the label, not the raw path, to keep
// cardinality bounded.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			httpDuration.WithLabelValues(c.Method(), c.Route().Path).Observe(v)
		}))

		err := c.Next()

		timer.ObserveDuration()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
		}
		httpRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()

		return err
	}
}
