package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK        = "ok"
	outcomeInvalid   = "invalid"
	outcomeTransport = "transport"
	outcomeRemote    = "remote"
	outcomeDecode    = "decode"
	outcomeError     = "error"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jupag_client",
			Name:      "requests_total",
			Help:      "API calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jupag_client",
			Name:      "request_duration_seconds",
			Help:      "Wall time of API calls, including validation and decoding.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case IsInvalidRequest(err):
		return outcomeInvalid
	case IsTransport(err):
		return outcomeTransport
	case IsRemote(err):
		return outcomeRemote
	case IsDecode(err):
		return outcomeDecode
	default:
		return outcomeError
	}
}

// observe records one call. Use it as `defer func() { observe(op, start, err) }()`.
func observe(op string, start time.Time, err error) {
	requestsTotal.WithLabelValues(op, outcome(err)).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
