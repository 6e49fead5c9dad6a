// Package bnetmetrics defines the prometheus metric types cmd/bnetctl
// exposes, grounded on metrics/metrics.go's promauto style: a var block
// of promauto-registered collectors, one per operation worth watching.
package bnetmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReadTotal counts networks successfully read, by format (aiger,
	// truth, binio).
	ReadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bnet_read_total",
			Help: "networks successfully read, by format",
		},
		[]string{"format"})

	// ReadErrorsTotal counts read failures, by format.
	ReadErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bnet_read_errors_total",
			Help: "network read failures, by format",
		},
		[]string{"format"})

	// WriteTotal counts networks successfully written, by format
	// (aiger, blif, iscas89, verilog).
	WriteTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bnet_write_total",
			Help: "networks successfully written, by format",
		},
		[]string{"format"})

	// NodeCountHistogram tracks the node count of every network this
	// process reads or builds, across all formats.
	NodeCountHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bnet_node_count_histogram",
			Help:    "node count distribution of processed networks",
			Buckets: prometheus.ExponentialBuckets(1, 2, 20),
		})

	// OpLatencyHistogram tracks wall-clock latency of a read or write
	// operation, by format and direction ("read"/"write").
	OpLatencyHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bnet_op_latency_seconds",
			Help:    "read/write operation latency distribution (seconds)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format", "direction"})

	// SimpleDecompTotal is registered for SimpleDecomp invocations (the
	// ISCAS-89 write path's need_decomp check rewriting Expr nodes to the
	// ten fixed primitives before writing). No code in this module
	// increments it, so it stays at zero.
	SimpleDecompTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bnet_simple_decomp_total",
			Help: "SimpleDecomp invocations triggered by a format's fixed-primitive restriction",
		})
)
