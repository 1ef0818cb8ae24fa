// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talkx_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedAssemblies counts feed requests by feed kind.
	FeedAssemblies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talkx_feed_assemblies_total",
		Help: "Total number of assembled feeds by kind",
	}, []string{"feed"})

	// FeedAssemblyLatency records feed assembly latency by feed kind.
	FeedAssemblyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "talkx_feed_assembly_latency_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})

	// CounterRepairs counts denormalized counters repaired by the reconciliation sweep.
	CounterRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talkx_counter_repairs_total",
		Help: "Total number of denormalized counters repaired by reconciliation",
	}, []string{"counter"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "talkx_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talkx_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})
)
