package clientapi

import (
	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/pkg/errors"
)

// RequestSyncMessages returns the number of sync committee messages the crawler stored for the slot.
// The status code is not checked, only the body.
func (s *APIClient) RequestSyncMessages(slot phase0.Slot) (int, error) {
	resp, err := s.get(MessagesEndpoint, slotURL(s.messagesEndpoint, slot))
	if err != nil {
		return 0, err
	}

	var messages SyncMessagesResponse
	if err := decode(MessagesEndpoint, resp.Body, &messages); err != nil {
		return 0, errors.Wrapf(err, "status %d", resp.StatusCode)
	}
	if messages.Data == nil {
		return 0, missingField(MessagesEndpoint, "data")
	}
	return len(*messages.Data), nil
}
