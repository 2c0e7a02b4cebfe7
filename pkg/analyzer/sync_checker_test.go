package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/migalabs/syncwatch/pkg/config"
	"github.com/migalabs/syncwatch/pkg/model"
	"github.com/migalabs/syncwatch/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotData struct {
	validatorsStatus int
	validators       string
	messages         string
	beaconchain      string
}

// crawlerServer serves the three endpoints from per slot fixtures and records every request path
type crawlerServer struct {
	t     *testing.T
	m     sync.Mutex
	slots map[phase0.Slot]slotData
	paths []string
}

func newCrawlerServer(t *testing.T, slots map[phase0.Slot]slotData) (*crawlerServer, *httptest.Server) {
	cs := &crawlerServer{t: t, slots: slots}
	ts := httptest.NewServer(cs)
	t.Cleanup(ts.Close)
	return cs, ts
}

func (cs *crawlerServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cs.m.Lock()
	cs.paths = append(cs.paths, r.URL.Path)
	cs.m.Unlock()

	idx := strings.LastIndex(r.URL.Path, "/")
	slot, err := strconv.ParseUint(r.URL.Path[idx+1:], 10, 64)
	if err != nil {
		cs.t.Errorf("unexpected path %s", r.URL.Path)
		return
	}
	data, ok := cs.slots[phase0.Slot(slot)]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code":404,"message":"Slot not found"}`)
		return
	}

	switch r.URL.Path[:idx] {
	case "/eth/v1/crawler/validators":
		status := data.validatorsStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		fmt.Fprint(w, data.validators)
	case "/eth/v1/crawler/messages":
		fmt.Fprint(w, data.messages)
	case "/api/v1/block":
		fmt.Fprint(w, data.beaconchain)
	default:
		cs.t.Errorf("unexpected path %s", r.URL.Path)
	}
}

func (cs *crawlerServer) requested(path string) bool {
	cs.m.Lock()
	defer cs.m.Unlock()
	for _, p := range cs.paths {
		if p == path {
			return true
		}
	}
	return false
}

func (cs *crawlerServer) validatorRequests() []string {
	cs.m.Lock()
	defer cs.m.Unlock()
	out := make([]string, 0)
	for _, p := range cs.paths {
		if strings.HasPrefix(p, "/eth/v1/crawler/validators/") {
			out = append(out, p)
		}
	}
	return out
}

func testConfig(url string, init, final phase0.Slot) config.SyncCheckConfig {
	conf := config.NewSyncCheckConfig()
	conf.InitSlot = init
	conf.FinalSlot = final
	conf.ValidatorsEndpoint = url + "/eth/v1/crawler/validators/"
	conf.MessagesEndpoint = url + "/eth/v1/crawler/messages/"
	conf.BeaconchainEndpoint = url + "/api/v1/block/"
	return *conf
}

func participation(p string) string {
	return `{"status":"OK","data":{"syncaggregate_participation":` + p + `}}`
}

func TestSyncCheckRecordsAndAlerts(t *testing.T) {
	_, ts := newCrawlerServer(t, map[phase0.Slot]slotData{
		100: {validators: `{"data":{"count":10}}`, messages: `{"data":[1,2,3]}`, beaconchain: participation("0.5")},
		101: {validators: `{"data":{"count":10}}`, messages: `{"data":[1,2,3]}`, beaconchain: participation("0.01")},
	})

	report := &bytes.Buffer{}
	checker, err := NewSyncChecker(context.Background(), testConfig(ts.URL, 100, 102), report)
	require.NoError(t, err)

	records, err := checker.Run()
	require.NoError(t, err)

	require.Equal(t, []model.SlotRecord{
		model.NewSlotRecord(100, 10, 3, 256),
		model.NewSlotRecord(101, 10, 3, 5),
	}, records)

	expected := "slot: 100, messages: 3, validators: 10, bc: 256\n" +
		"slot: 101, messages: 3, validators: 10, bc: 5\n" +
		"Fetched more validators for slot 101, difference: 5\n"
	assert.Equal(t, expected, report.String())
}

func TestSyncCheckSkipsFailedValidators(t *testing.T) {
	cs, ts := newCrawlerServer(t, map[phase0.Slot]slotData{
		200: {validators: `{"data":{"count":1}}`, messages: `{"data":[]}`, beaconchain: participation("1")},
		// 201 missing: 404
		202: {validatorsStatus: http.StatusInternalServerError, validators: `oops`},
		203: {validators: `{"data":{"count":"600"}}`, messages: `{"data":[1]}`, beaconchain: participation("1")},
	})

	report := &bytes.Buffer{}
	checker, err := NewSyncChecker(context.Background(), testConfig(ts.URL, 200, 204), report)
	require.NoError(t, err)

	records, err := checker.Run()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, phase0.Slot(200), records[0].Slot)
	require.Equal(t, phase0.Slot(203), records[1].Slot)

	for _, slot := range []string{"201", "202"} {
		require.False(t, cs.requested("/eth/v1/crawler/messages/"+slot))
		require.False(t, cs.requested("/api/v1/block/"+slot))
	}

	// every candidate slot is tried once, in ascending order
	require.Equal(t, []string{
		"/eth/v1/crawler/validators/200",
		"/eth/v1/crawler/validators/201",
		"/eth/v1/crawler/validators/202",
		"/eth/v1/crawler/validators/203",
	}, cs.validatorRequests())

	require.Equal(t, uint64(2), checker.slotsProcessed.Load())
	require.Equal(t, uint64(2), checker.slotsSkipped.Load())
	require.Equal(t, uint64(1), checker.alerts.Load())
	assert.Contains(t, report.String(), "Fetched more validators for slot 203, difference: 88\n")
}

func TestSyncCheckStopsOnMalformedResponse(t *testing.T) {
	cs, ts := newCrawlerServer(t, map[phase0.Slot]slotData{
		300: {validators: `{"data":{"count":10}}`, messages: `{"data":[1]}`, beaconchain: participation("0.5")},
		301: {validators: `{"data":{"count":10}}`, messages: `<html>bad gateway</html>`, beaconchain: participation("0.5")},
		302: {validators: `{"data":{"count":10}}`, messages: `{"data":[1]}`, beaconchain: participation("0.5")},
	})

	checker, err := NewSyncChecker(context.Background(), testConfig(ts.URL, 300, 303), &bytes.Buffer{})
	require.NoError(t, err)

	records, err := checker.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slot 301")
	require.Len(t, records, 1)
	require.False(t, cs.requested("/api/v1/block/301"))
	require.False(t, cs.requested("/eth/v1/crawler/validators/302"))
}

func TestSyncCheckStopsOnMissingParticipation(t *testing.T) {
	_, ts := newCrawlerServer(t, map[phase0.Slot]slotData{
		400: {validators: `{"data":{"count":10}}`, messages: `{"data":[1]}`, beaconchain: `{"status":"OK","data":{}}`},
	})

	checker, err := NewSyncChecker(context.Background(), testConfig(ts.URL, 400, 401), &bytes.Buffer{})
	require.NoError(t, err)

	records, err := checker.Run()
	require.Error(t, err)
	require.Empty(t, records)
}

func TestSyncCheckCancelled(t *testing.T) {
	cs, ts := newCrawlerServer(t, map[phase0.Slot]slotData{})

	ctx, cancel := context.WithCancel(context.Background())
	checker, err := NewSyncChecker(ctx, testConfig(ts.URL, 500, 510), &bytes.Buffer{})
	require.NoError(t, err)
	cancel()

	records, err := checker.Run()
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, records)
	require.Empty(t, cs.validatorRequests())
}

func TestNewSyncCheckerInvalidConfig(t *testing.T) {
	conf := testConfig("http://localhost:5051", 10, 5)
	_, err := NewSyncChecker(context.Background(), conf, &bytes.Buffer{})
	require.Error(t, err)
}

// fakeRequester answers from memory and counts the calls per endpoint
type fakeRequester struct {
	validators  map[phase0.Slot]int
	messages    int
	beaconchain int

	validatorCalls  []phase0.Slot
	messageCalls    []phase0.Slot
	beaconchainCall []phase0.Slot
}

func (f *fakeRequester) RequestValidators(slot phase0.Slot) (int, bool, error) {
	f.validatorCalls = append(f.validatorCalls, slot)
	count, ok := f.validators[slot]
	return count, ok, nil
}

func (f *fakeRequester) RequestSyncMessages(slot phase0.Slot) (int, error) {
	f.messageCalls = append(f.messageCalls, slot)
	return f.messages, nil
}

func (f *fakeRequester) RequestBeaconchainParticipation(slot phase0.Slot) (int, error) {
	f.beaconchainCall = append(f.beaconchainCall, slot)
	return f.beaconchain, nil
}

func TestSyncCheckAlertDifference(t *testing.T) {
	fake := &fakeRequester{
		validators:  map[phase0.Slot]int{1: 300, 3: 256, 4: 257},
		messages:    7,
		beaconchain: 256,
	}

	ctx, cancel := context.WithCancel(context.Background())
	report := &bytes.Buffer{}
	checker := newSyncChecker(ctx, cancel, fake, utils.NewSlotRange(0, 5), report)
	defer checker.Close()

	records, err := checker.Run()
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, []phase0.Slot{0, 1, 2, 3, 4}, fake.validatorCalls)
	require.Equal(t, []phase0.Slot{1, 3, 4}, fake.messageCalls)
	require.Equal(t, []phase0.Slot{1, 3, 4}, fake.beaconchainCall)

	lines := strings.Split(strings.TrimSpace(report.String()), "\n")
	require.Equal(t, []string{
		"slot: 1, messages: 7, validators: 300, bc: 256",
		"Fetched more validators for slot 1, difference: 44",
		"slot: 3, messages: 7, validators: 256, bc: 256",
		"slot: 4, messages: 7, validators: 257, bc: 256",
		"Fetched more validators for slot 4, difference: 1",
	}, lines)
}
