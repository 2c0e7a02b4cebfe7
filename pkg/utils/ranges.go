package utils

import (
	"strconv"
	"strings"

	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/pkg/errors"
)

// SlotRange is the half-open interval [Init, Final)
type SlotRange struct {
	Init  phase0.Slot
	Final phase0.Slot
}

func NewSlotRange(init phase0.Slot, final phase0.Slot) SlotRange {
	return SlotRange{
		Init:  init,
		Final: final,
	}
}

// NewSlotRangeFromString parses a MIN:MAX string into a slot range
func NewSlotRangeFromString(strRange string) (SlotRange, error) {
	ranges := strings.Split(strRange, ":")
	if len(ranges) != 2 {
		return SlotRange{}, errors.Errorf("unable to parse range no MIN:MAX format - %s", strRange)
	}

	min, err := strconv.ParseUint(strings.TrimSpace(ranges[0]), 10, 64)
	if err != nil {
		return SlotRange{}, errors.Wrapf(err, "unable to parse MIN value, non numerical - %s", ranges[0])
	}
	max, err := strconv.ParseUint(strings.TrimSpace(ranges[1]), 10, 64)
	if err != nil {
		return SlotRange{}, errors.Wrapf(err, "unable to parse MAX value, non numerical - %s", ranges[1])
	}

	return NewSlotRange(phase0.Slot(min), phase0.Slot(max)), nil
}

// IsValid reports whether the range contains at least one slot
func (r SlotRange) IsValid() bool {
	return r.Final > r.Init
}

// Len returns the number of candidate slots in the range
func (r SlotRange) Len() uint64 {
	if !r.IsValid() {
		return 0
	}
	return uint64(r.Final - r.Init)
}

func (r SlotRange) String() string {
	return strconv.FormatUint(uint64(r.Init), 10) + ":" + strconv.FormatUint(uint64(r.Final), 10)
}
