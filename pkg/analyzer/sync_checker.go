package analyzer

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/migalabs/syncwatch/pkg/clientapi"
	"github.com/migalabs/syncwatch/pkg/config"
	prom_metrics "github.com/migalabs/syncwatch/pkg/metrics"
	"github.com/migalabs/syncwatch/pkg/model"
	"github.com/migalabs/syncwatch/pkg/spec"
	"github.com/migalabs/syncwatch/pkg/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	moduleName = "analyzer"
	log        = logrus.WithField(
		"module", moduleName,
	)
)

// SlotDataRequester is the subset of the API client the checker depends on
type SlotDataRequester interface {
	RequestValidators(slot phase0.Slot) (int, bool, error)
	RequestSyncMessages(slot phase0.Slot) (int, error)
	RequestBeaconchainParticipation(slot phase0.Slot) (int, error)
}

// SyncChecker walks the slot range one slot at a time and compares the crawler
// node's sync committee validators against the canonical sync aggregate.
type SyncChecker struct {
	ctx    context.Context
	cancel context.CancelFunc

	slotRange utils.SlotRange
	cli       SlotDataRequester
	monitor   *prom_metrics.Monitor
	report    io.Writer

	// append only, ascending by slot
	records []model.SlotRecord

	currentSlot    atomic.Uint64
	slotsProcessed atomic.Uint64
	slotsSkipped   atomic.Uint64
	alerts         atomic.Uint64

	closeOnce   sync.Once
	initTime    time.Time
	PromMetrics *prom_metrics.PrometheusMetrics // nil when the exporter is disabled
}

func NewSyncChecker(
	pCtx context.Context,
	iConfig config.SyncCheckConfig,
	report io.Writer) (*SyncChecker, error) {

	if err := iConfig.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	ctx, cancel := context.WithCancel(pCtx)

	cli, err := clientapi.NewAPIClient(ctx,
		iConfig.ValidatorsEndpoint,
		iConfig.MessagesEndpoint,
		iConfig.BeaconchainEndpoint,
		clientapi.WithTimeout(iConfig.RequestTimeout))
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "unable to generate API Client.")
	}

	checker := newSyncChecker(ctx, cancel, cli, iConfig.SlotRange(), report)
	checker.monitor = cli.Monitor

	if iConfig.PrometheusPort > 0 {
		checker.PromMetrics = prom_metrics.NewPrometheusMetrics(ctx, "0.0.0.0", iConfig.PrometheusPort)
		checker.PromMetrics.AddMeticsModule(checker.GetPrometheusMetrics())
		checker.PromMetrics.AddMeticsModule(cli.GetPrometheusMetrics())
	}

	return checker, nil
}

func newSyncChecker(
	ctx context.Context,
	cancel context.CancelFunc,
	cli SlotDataRequester,
	slotRange utils.SlotRange,
	report io.Writer) *SyncChecker {

	return &SyncChecker{
		ctx:       ctx,
		cancel:    cancel,
		slotRange: slotRange,
		cli:       cli,
		monitor:   prom_metrics.NewMonitorMetrics(),
		report:    report,
		records:   make([]model.SlotRecord, 0),
	}
}

// Run processes every slot of the range in ascending order.
// It stops at the first request or decoding error and returns the records
// collected until then along with the error.
func (s *SyncChecker) Run() ([]model.SlotRecord, error) {
	s.initTime = time.Now()
	log.Infof("checking sync committee participation for slots %s", s.slotRange)

	if s.PromMetrics != nil {
		if err := s.PromMetrics.Start(); err != nil {
			return s.Records(), errors.Wrap(err, "unable to start prometheus exporter")
		}
	}
	defer s.logSummary()

	for slot := s.slotRange.Init; slot < s.slotRange.Final; slot++ {
		if err := s.ctx.Err(); err != nil {
			return s.Records(), err
		}
		s.currentSlot.Store(uint64(slot))

		if err := s.processSlot(slot); err != nil {
			return s.Records(), err
		}
	}
	return s.Records(), nil
}

func (s *SyncChecker) processSlot(slot phase0.Slot) error {
	validatorsCnt, ok, err := s.cli.RequestValidators(slot)
	if err != nil {
		return errors.Wrapf(err, "unable to request validators for slot %d", slot)
	}
	if !ok {
		// nothing else is requested for this slot
		s.slotsSkipped.Add(1)
		slotsSkippedTotal.Inc()
		log.Debugf("skipping slot %d", slot)
		return nil
	}

	messagesCnt, err := s.cli.RequestSyncMessages(slot)
	if err != nil {
		return errors.Wrapf(err, "unable to request messages for slot %d", slot)
	}

	beaconchainCnt, err := s.cli.RequestBeaconchainParticipation(slot)
	if err != nil {
		return errors.Wrapf(err, "unable to request beaconchain block for slot %d", slot)
	}

	record := model.NewSlotRecord(slot, validatorsCnt, messagesCnt, beaconchainCnt)
	log.WithFields(logrus.Fields{
		"epoch":  spec.EpochAtSlot(slot),
		"period": spec.SyncCommitteePeriodAtSlot(slot),
	}).Debugf("slot %d checked", slot)
	s.records = append(s.records, record)
	s.slotsProcessed.Add(1)
	slotsProcessedTotal.Inc()

	if _, err := fmt.Fprintln(s.report, record.String()); err != nil {
		return errors.Wrap(err, "unable to write report")
	}

	if alert, ok := record.Alert(); ok {
		s.alerts.Add(1)
		alertsTotal.Inc()
		if _, err := fmt.Fprintln(s.report, alert.String()); err != nil {
			return errors.Wrap(err, "unable to write report")
		}
	}
	return nil
}

// Records returns a copy of the records collected so far
func (s *SyncChecker) Records() []model.SlotRecord {
	records := make([]model.SlotRecord, len(s.records))
	copy(records, s.records)
	return records
}

func (s *SyncChecker) logSummary() {
	log.WithFields(logrus.Fields{
		"slots":       s.slotRange.Len(),
		"records":     s.slotsProcessed.Load(),
		"skipped":     s.slotsSkipped.Load(),
		"alerts":      s.alerts.Load(),
		"validators":  s.monitor.RequestTime(clientapi.ValidatorsEndpoint),
		"messages":    s.monitor.RequestTime(clientapi.MessagesEndpoint),
		"beaconchain": s.monitor.RequestTime(clientapi.BeaconchainEndpoint),
	}).Infof("sync check finished in %s", time.Since(s.initTime))
}

func (s *SyncChecker) Close() {
	s.closeOnce.Do(func() {
		log.Info("closing sync checker")
		s.cancel()
		if s.PromMetrics != nil {
			s.PromMetrics.Close()
		}
	})
}
