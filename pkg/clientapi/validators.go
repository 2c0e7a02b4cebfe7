package clientapi

import (
	"encoding/json"

	"github.com/attestantio/go-eth2-client/spec/phase0"
	bitfield "github.com/prysmaticlabs/go-bitfield"
)

// RequestValidators returns the number of sync committee validators the crawler saw at the slot.
// ok is false when the node answered with a non 2xx status; the body is not read in that case.
func (s *APIClient) RequestValidators(slot phase0.Slot) (count int, ok bool, err error) {
	resp, err := s.get(ValidatorsEndpoint, slotURL(s.validatorsEndpoint, slot))
	if err != nil {
		return 0, false, err
	}
	if !resp.OK() {
		log.Debugf("validators not available for slot %d: status %d", slot, resp.StatusCode)
		return 0, false, nil
	}

	var validators ValidatorsResponse
	if err := decode(ValidatorsEndpoint, resp.Body, &validators); err != nil {
		return 0, false, err
	}
	if validators.Data == nil {
		return 0, false, missingField(ValidatorsEndpoint, "data")
	}
	if validators.Data.Count == nil {
		return 0, false, missingField(ValidatorsEndpoint, "data.count")
	}
	count = int(*validators.Data.Count)

	if bits, ok := syncCommitteeBits(validators.Data.Bitlist); ok {
		if setBits := int(bits.Count()); setBits != count {
			log.Warnf("slot %d: crawler reported %d validators but its bitlist has %d bits set", slot, count, setBits)
		}
	}
	return count, true, nil
}

// syncCommitteeBits builds the sync committee bitvector from the merged bitlist of the crawler.
// The node joins the 512 bits into a "0101..." string; a list of 0/1 integers is also accepted.
// Any other shape (including the empty string of a slot without aggregates) is ignored.
func syncCommitteeBits(raw json.RawMessage) (bitfield.Bitvector512, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var bitString string
	if err := json.Unmarshal(raw, &bitString); err == nil {
		if len(bitString) != SyncCommitteeSize {
			return nil, false
		}
		bits := bitfield.NewBitvector512()
		for i := 0; i < len(bitString); i++ {
			switch bitString[i] {
			case '0':
			case '1':
				bits.SetBitAt(uint64(i), true)
			default:
				return nil, false
			}
		}
		return bits, true
	}

	var entries []int
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	if len(entries) != SyncCommitteeSize {
		return nil, false
	}
	bits := bitfield.NewBitvector512()
	for i, entry := range entries {
		switch entry {
		case 0:
		case 1:
			bits.SetBitAt(uint64(i), true)
		default:
			return nil, false
		}
	}
	return bits, true
}
