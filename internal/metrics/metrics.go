// Package metrics registers the Prometheus collectors for the proposal
// lifecycle and the credit ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// VotesTotal counts vote writes by action (add, duplicate, remove)
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trips_club_votes_total",
		Help: "Vote ledger writes by action.",
	}, []string{"action"})

	// InterestTotal counts interest writes by action (add, update, remove)
	InterestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trips_club_interest_total",
		Help: "Interest ledger writes by action.",
	}, []string{"action"})

	// TransitionsTotal counts proposal status changes
	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trips_club_proposal_transitions_total",
		Help: "Proposal lifecycle transitions by source and target status.",
	}, []string{"from", "to"})

	// CreditCentsTotal sums absolute credit movement by transaction type
	CreditCentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trips_club_credit_cents_total",
		Help: "Absolute travel credit moved through the ledger, in cents.",
	}, []string{"type"})

	// CreatorRewardsTotal counts creator reward payouts
	CreatorRewardsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trips_club_creator_rewards_total",
		Help: "Creator rewards paid when a member proposal is scheduled.",
	})

	// RequestDuration observes HTTP latency
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trips_club_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// RecordTransition counts a proposal status change
func RecordTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	TransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordCredit counts a ledger write
func RecordCredit(txType string, amountCents int64) {
	if amountCents < 0 {
		amountCents = -amountCents
	}
	CreditCentsTotal.WithLabelValues(txType).Add(float64(amountCents))
}

// Middleware observes request latency per route template
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
