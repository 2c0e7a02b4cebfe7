package clientapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/migalabs/syncwatch/pkg/utils"
	"github.com/pkg/errors"
)

var userAgent = utils.CliName + "/" + utils.Version

type rawResponse struct {
	StatusCode int
	Body       []byte
}

// OK is true for 2xx status codes
func (r rawResponse) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

func slotURL(prefix string, slot phase0.Slot) string {
	return prefix + strconv.FormatUint(uint64(slot), 10)
}

// get issues a GET on the url and reads the full body without interpreting the status code.
func (s *APIClient) get(endpoint string, reqURL string) (rawResponse, error) {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return rawResponse{}, errors.Wrapf(err, "unable to create %s request", endpoint)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	startTime := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		elapsed := time.Since(startTime)
		observeRequest(endpoint, "error", elapsed)
		s.Monitor.AddRequest(endpoint, elapsed)
		return rawResponse{}, errors.Wrapf(err, "%s request to %s failed", endpoint, reqURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(startTime)
	observeRequest(endpoint, strconv.Itoa(resp.StatusCode), elapsed)
	s.Monitor.AddRequest(endpoint, elapsed)
	if err != nil {
		return rawResponse{}, errors.Wrapf(err, "unable to read %s response body", endpoint)
	}

	log.Tracef("%s %s -> %d in %s", endpoint, reqURL, resp.StatusCode, elapsed)
	return rawResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func decode(endpoint string, body []byte, result interface{}) error {
	if err := json.Unmarshal(body, result); err != nil {
		return errors.Wrapf(err, "unable to decode %s response", endpoint)
	}
	return nil
}
