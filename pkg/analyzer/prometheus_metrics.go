package analyzer

import (
	"strings"

	"github.com/migalabs/syncwatch/pkg/metrics"
	"github.com/migalabs/syncwatch/pkg/utils"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	modName    = "analyzer"
	modDetails = "general metrics about the sync check"

	slotsProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: strings.ToLower(utils.CliName),
		Subsystem: modName,
		Name:      "slots_processed_total",
		Help:      "The number of slots with a record",
	})
	slotsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: strings.ToLower(utils.CliName),
		Subsystem: modName,
		Name:      "slots_skipped_total",
		Help:      "The number of slots skipped because the crawler had no validators",
	})
	alertsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: strings.ToLower(utils.CliName),
		Subsystem: modName,
		Name:      "alerts_total",
		Help:      "The number of slots where the crawler saw more validators than the sync aggregate",
	})
	CurrentSlot = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: strings.ToLower(utils.CliName),
		Subsystem: modName,
		Name:      "current_slot",
		Help:      "The slot being checked",
	})
)

func (s *SyncChecker) GetPrometheusMetrics() *metrics.MetricsModule {
	metricsMod := metrics.NewMetricsModule(
		modName,
		modDetails,
	)

	if err := metricsMod.AddIndvMetric(s.getSlotCounters()); err != nil {
		log.Error(errors.Wrap(err, "unable to add slot counters"))
	}
	if err := metricsMod.AddIndvMetric(s.getCurrentSlot()); err != nil {
		log.Error(errors.Wrap(err, "unable to add current slot"))
	}

	return metricsMod
}

func (s *SyncChecker) getSlotCounters() *metrics.IndvMetrics {
	initFn := func(reg prometheus.Registerer) error {
		for _, c := range []prometheus.Collector{slotsProcessedTotal, slotsSkippedTotal, alertsTotal} {
			if err := reg.Register(c); err != nil {
				return err
			}
		}
		return nil
	}

	updateFn := func() (interface{}, error) {
		return map[string]uint64{
			"processed": s.slotsProcessed.Load(),
			"skipped":   s.slotsSkipped.Load(),
			"alerts":    s.alerts.Load(),
		}, nil
	}

	indvMetr, err := metrics.NewIndvMetrics(
		"slot_counters",
		initFn,
		updateFn,
	)
	if err != nil {
		log.Error(errors.Wrap(err, "unable to init slot_counters"))
		return nil
	}

	return indvMetr
}

func (s *SyncChecker) getCurrentSlot() *metrics.IndvMetrics {
	initFn := func(reg prometheus.Registerer) error {
		return reg.Register(CurrentSlot)
	}

	updateFn := func() (interface{}, error) {
		slot := s.currentSlot.Load()
		CurrentSlot.Set(float64(slot))
		return slot, nil
	}

	indvMetr, err := metrics.NewIndvMetrics(
		"current_slot",
		initFn,
		updateFn,
	)
	if err != nil {
		log.Error(errors.Wrap(err, "unable to init current_slot"))
		return nil
	}

	return indvMetr
}
