package spec

import "github.com/attestantio/go-eth2-client/spec/phase0"

/*
Phase0
*/
const (
	SlotsPerEpoch = 32
	SlotSeconds   = 12
)

/*
Altair
*/
const (
	SyncCommitteeSize = 512
	// a sync committee serves this many epochs before rotating
	EpochsPerSyncCommitteePeriod = 256
)

func EpochAtSlot(slot phase0.Slot) phase0.Epoch {
	return phase0.Epoch(slot / SlotsPerEpoch)
}

// SyncCommitteePeriodAtSlot returns the sync committee period the slot belongs to
func SyncCommitteePeriodAtSlot(slot phase0.Slot) uint64 {
	return uint64(EpochAtSlot(slot)) / EpochsPerSyncCommitteePeriod
}
