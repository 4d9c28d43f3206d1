package service_test

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Behyna/bank-webhooks/internal/metrics"
)

func newMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}
