// Package metrics collects Prometheus metrics for store calls and bid outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store call outcomes
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

// Bid submission outcomes as seen by the controller
const (
	BidAccepted  = "accepted"
	BidInvalid   = "invalid"
	BidRejected  = "rejected"
	BidTransport = "transport_error"
	BidIgnored   = "ignored"
	BidDiscarded = "discarded"
)

// Recorder is the metrics surface used by the store client and the bid controller.
type Recorder interface {
	RecordStoreRequest(op, outcome string, duration time.Duration)
	RecordBidOutcome(outcome string)
}

// Collector records metrics into Prometheus.
type Collector struct {
	storeRequests *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec
	bidOutcomes   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		storeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_store_requests_total",
			Help: "Auction store requests by operation and outcome",
		}, []string{"op", "outcome"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auction_store_request_seconds",
			Help:    "Auction store request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		bidOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_bid_submissions_total",
			Help: "Bid submissions by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.storeRequests, c.storeLatency, c.bidOutcomes)

	return c
}

// RecordStoreRequest counts a store call and observes its latency.
func (c *Collector) RecordStoreRequest(op, outcome string, duration time.Duration) {
	c.storeRequests.WithLabelValues(op, outcome).Inc()
	c.storeLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordBidOutcome counts a bid submission result.
func (c *Collector) RecordBidOutcome(outcome string) {
	c.bidOutcomes.WithLabelValues(outcome).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordStoreRequest(string, string, time.Duration) {}
func (Nop) RecordBidOutcome(string)                          {}
