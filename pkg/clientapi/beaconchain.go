package clientapi

import (
	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/migalabs/syncwatch/pkg/spec"
	"github.com/pkg/errors"
)

// SyncCommitteeSize is the number of validators in a sync committee
const SyncCommitteeSize = spec.SyncCommitteeSize

// ParticipationCount converts a sync aggregate participation fraction into a validator count, truncating.
func ParticipationCount(participation float64) int {
	return int(participation * SyncCommitteeSize)
}

// RequestBeaconchainParticipation returns the sync committee participation, as a validator count,
// that beaconcha.in reports for the block at the slot. The status code is not checked, only the body.
func (s *APIClient) RequestBeaconchainParticipation(slot phase0.Slot) (int, error) {
	resp, err := s.get(BeaconchainEndpoint, slotURL(s.beaconchainEndpoint, slot))
	if err != nil {
		return 0, err
	}

	var block BeaconchainBlockResponse
	if err := decode(BeaconchainEndpoint, resp.Body, &block); err != nil {
		return 0, errors.Wrapf(err, "status %d", resp.StatusCode)
	}
	if block.Data == nil {
		return 0, missingField(BeaconchainEndpoint, "data")
	}
	if block.Data.SyncaggregateParticipation == nil {
		return 0, missingField(BeaconchainEndpoint, "data.syncaggregate_participation")
	}
	return ParticipationCount(*block.Data.SyncaggregateParticipation), nil
}
