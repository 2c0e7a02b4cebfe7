package clientapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Count is an integer that the crawler node may serialize either as a JSON number or as a quoted decimal.
type Count int

func (c *Count) UnmarshalJSON(input []byte) error {
	input = bytes.TrimSpace(input)
	if len(input) > 0 && input[0] == '"' {
		var str string
		if err := json.Unmarshal(input, &str); err != nil {
			return err
		}
		value, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return errors.Wrapf(err, "invalid count %q", str)
		}
		*c = Count(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(input, &number); err != nil {
		return errors.Wrapf(err, "invalid count %s", string(input))
	}
	if value, err := number.Int64(); err == nil {
		*c = Count(value)
		return nil
	}
	value, err := number.Float64()
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return errors.Errorf("invalid count %s", string(input))
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range
	value = math.Trunc(value)
	if value >= math.MaxInt64 || value < math.MinInt64 {
		return errors.Errorf("invalid count %s", string(input))
	}
	*c = Count(value)
	return nil
}

// /eth/v1/crawler/validators/{slot}
type ValidatorsResponse struct {
	Data *ValidatorsData `json:"data"`
}

type ValidatorsData struct {
	Count   *Count          `json:"count"`
	Bitlist json.RawMessage `json:"bitlist"`
}

// /eth/v1/crawler/messages/{slot}
// items are not interpreted, only counted
type SyncMessagesResponse struct {
	Data *[]json.RawMessage `json:"data"`
}

// beaconcha.in /api/v1/block/{slot}
type BeaconchainBlockResponse struct {
	Status string                `json:"status"`
	Data   *BeaconchainBlockData `json:"data"`
}

type BeaconchainBlockData struct {
	SyncaggregateParticipation *float64 `json:"syncaggregate_participation"`
}
