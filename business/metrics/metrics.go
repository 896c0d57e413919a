// Package metrics collects prometheus metrics for the ledger node.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exposed by the node.
const Namespace = "powledger"

// Status label values for success/error metrics.
const (
	StatusAdmitted = "admitted"
	StatusRejected = "rejected"
)

// Metrics implements the state.Recorder interface and tracks the web api.
type Metrics struct {
	blocksMined     prometheus.Counter
	miningFailures  prometheus.Counter
	miningAttempts  prometheus.Counter
	miningDuration  prometheus.Histogram
	lastBlockNumber prometheus.Gauge
	chainHeight     prometheus.Gauge
	poolSize        prometheus.Gauge
	transactions    *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestsActive  prometheus.Gauge
}

// New creates a Metrics value and registers all metrics with the provided
// registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		blocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "blocks_mined_total",
			Help:      "Number of blocks mined and appended to the chain",
		}),
		miningFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "mining_failures_total",
			Help:      "Number of mining operations that were cancelled or discarded",
		}),
		miningAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "mining_attempts_total",
			Help:      "Number of nonces hashed by successful mining operations",
		}),
		miningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "mining_duration_seconds",
			Help:      "Time taken to solve a block",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		lastBlockNumber: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_block_number",
			Help:      "Number of the latest mined block",
		}),
		chainHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "chain_length",
			Help:      "Number of blocks in the chain including genesis",
		}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "mempool_size",
			Help:      "Number of transactions waiting to be mined",
		}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "transactions_submitted_total",
			Help:      "Number of transactions submitted to the mempool by status",
		}, []string{"status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Number of web api requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of web api requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of web api requests being served",
		}),
	}

	err := errors.Join(
		reg.Register(m.blocksMined),
		reg.Register(m.miningFailures),
		reg.Register(m.miningAttempts),
		reg.Register(m.miningDuration),
		reg.Register(m.lastBlockNumber),
		reg.Register(m.chainHeight),
		reg.Register(m.poolSize),
		reg.Register(m.transactions),
		reg.Register(m.requests),
		reg.Register(m.requestDuration),
		reg.Register(m.requestsActive),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// =============================================================================
// These methods implement the state.Recorder interface.

// BlockMined records a block that was solved and appended.
func (m *Metrics) BlockMined(number uint64, attempts uint64, duration time.Duration) {
	m.blocksMined.Inc()
	m.miningAttempts.Add(float64(attempts))
	m.miningDuration.Observe(duration.Seconds())
	m.lastBlockNumber.Set(float64(number))
}

// MiningFailed records a mining operation that didn't produce a block.
func (m *Metrics) MiningFailed() {
	m.miningFailures.Inc()
}

// TransactionSubmitted records the outcome of a submission.
func (m *Metrics) TransactionSubmitted(admitted bool) {
	status := StatusRejected
	if admitted {
		status = StatusAdmitted
	}
	m.transactions.WithLabelValues(status).Inc()
}

// ChainHeight records the length of the chain.
func (m *Metrics) ChainHeight(length int) {
	m.chainHeight.Set(float64(length))
}

// PoolSize records the number of pending transactions.
func (m *Metrics) PoolSize(count int) {
	m.poolSize.Set(float64(count))
}

// =============================================================================

// RequestStarted marks a web api request as in flight.
func (m *Metrics) RequestStarted() {
	m.requestsActive.Inc()
}

// RequestCompleted records a finished web api request.
func (m *Metrics) RequestCompleted(method string, route string, statusCode int, duration time.Duration) {
	m.requestsActive.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
