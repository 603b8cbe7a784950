// Package metrics holds the game's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cryptofarm"

var (
	Ticks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Session timer ticks by kind",
		},
		[]string{"kind"},
	)
	CashMined = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cash_mined_total",
			Help:      "Cash produced by mining, by source",
		},
		[]string{"source"},
	)
	Actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Player actions by name and result",
		},
		[]string{"action", "result"},
	)
	Rebirths = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebirths_total",
			Help:      "Successful rebirths",
		},
	)
	Saves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Snapshot writes by result",
		},
		[]string{"result"},
	)
	SaveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Time to flush one snapshot",
			Buckets:   prometheus.DefBuckets,
		},
	)
	Loads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Session loads by outcome (restored, fresh, discarded)",
		},
		[]string{"outcome"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory",
		},
	)
	HTTPRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(Ticks, CashMined, Actions, Rebirths, Saves, SaveDuration, Loads, ActiveSessions, HTTPRequests)
}

// Result labels
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// ResultOf maps an error to a result label
func ResultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
