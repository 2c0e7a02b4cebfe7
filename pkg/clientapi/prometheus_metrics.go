package clientapi

import (
	"strings"
	"time"

	"github.com/migalabs/syncwatch/pkg/metrics"
	"github.com/migalabs/syncwatch/pkg/utils"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	clientAPIMetricsName    = "clientapi"
	clientAPIMetricsDetails = "metrics about the crawler and beaconcha.in requests"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: strings.ToLower(utils.CliName),
			Subsystem: clientAPIMetricsName,
			Name:      "requests_total",
			Help:      "Total number of requests per endpoint and status code (error for transport failures).",
		},
		[]string{"endpoint", "code"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: strings.ToLower(utils.CliName),
			Subsystem: clientAPIMetricsName,
			Name:      "request_duration_seconds",
			Help:      "Duration of the requests per endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func observeRequest(endpoint string, code string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(endpoint, code).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (s *APIClient) GetPrometheusMetrics() *metrics.MetricsModule {
	mod := metrics.NewMetricsModule(
		clientAPIMetricsName,
		clientAPIMetricsDetails,
	)

	initFn := func(reg prometheus.Registerer) error {
		if err := reg.Register(requestsTotal); err != nil {
			return err
		}
		return reg.Register(requestDuration)
	}

	updateFn := func() (interface{}, error) {
		return s.Monitor.Snapshot(), nil
	}

	indvMetrics, err := metrics.NewIndvMetrics(
		"requests",
		initFn,
		updateFn,
	)
	if err != nil {
		log.Error(errors.Wrap(err, "unable to init requests metrics"))
		return nil
	}

	if err := mod.AddIndvMetric(indvMetrics); err != nil {
		log.Error(errors.Wrap(err, "unable to register clientapi metrics module"))
		return nil
	}

	return mod
}
