package model

import (
	"fmt"

	"github.com/attestantio/go-eth2-client/spec/phase0"
)

// SlotRecord aggregates the per-slot counts reported by the crawler node and beaconcha.in
type SlotRecord struct {
	Slot           phase0.Slot
	ValidatorsCnt  int
	MessagesCnt    int
	BeaconchainCnt int
}

func NewSlotRecord(slot phase0.Slot, validatorsCnt, messagesCnt, beaconchainCnt int) SlotRecord {
	return SlotRecord{
		Slot:           slot,
		ValidatorsCnt:  validatorsCnt,
		MessagesCnt:    messagesCnt,
		BeaconchainCnt: beaconchainCnt,
	}
}

// HasAlert is true when the crawler saw more validators than the canonical sync aggregate includes
func (r SlotRecord) HasAlert() bool {
	return r.ValidatorsCnt > r.BeaconchainCnt
}

func (r SlotRecord) Difference() int {
	return r.ValidatorsCnt - r.BeaconchainCnt
}

// Alert returns the alert for the record, ok is false when there is nothing to report
func (r SlotRecord) Alert() (alert Alert, ok bool) {
	if !r.HasAlert() {
		return Alert{}, false
	}
	return Alert{
		Slot:       r.Slot,
		Difference: r.Difference(),
	}, true
}

func (r SlotRecord) String() string {
	return fmt.Sprintf("slot: %d, messages: %d, validators: %d, bc: %d",
		r.Slot,
		r.MessagesCnt,
		r.ValidatorsCnt,
		r.BeaconchainCnt)
}

type Alert struct {
	Slot       phase0.Slot
	Difference int
}

func (a Alert) String() string {
	return fmt.Sprintf("Fetched more validators for slot %d, difference: %d", a.Slot, a.Difference)
}
