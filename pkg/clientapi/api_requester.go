package clientapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/migalabs/syncwatch/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	moduleName = "API-Cli"
	log        = logrus.WithField(
		"module", moduleName)
)

// Endpoint names, used as metric labels and in error messages
const (
	ValidatorsEndpoint  = "validators"
	MessagesEndpoint    = "messages"
	BeaconchainEndpoint = "beaconchain"
)

type APIClientOption func(*APIClient) error

// APIClient requests the crawler node and beaconcha.in for a given slot.
// Slot numbers are appended to the configured endpoint prefixes.
type APIClient struct {
	ctx    context.Context
	client *http.Client

	validatorsEndpoint  string
	messagesEndpoint    string
	beaconchainEndpoint string

	Monitor *metrics.Monitor
}

func NewAPIClient(
	ctx context.Context,
	validatorsEndpoint string,
	messagesEndpoint string,
	beaconchainEndpoint string,
	options ...APIClientOption) (*APIClient, error) {

	for _, endpoint := range []string{validatorsEndpoint, messagesEndpoint, beaconchainEndpoint} {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return nil, errors.Wrapf(err, "invalid endpoint %q", endpoint)
		}
	}

	apiService := &APIClient{
		ctx:                 ctx,
		client:              &http.Client{},
		validatorsEndpoint:  validatorsEndpoint,
		messagesEndpoint:    messagesEndpoint,
		beaconchainEndpoint: beaconchainEndpoint,
		Monitor:             metrics.NewMonitorMetrics(),
	}

	for _, o := range options {
		if err := o(apiService); err != nil {
			return nil, err
		}
	}

	log.Debugf("generated API client for %s, %s and %s", validatorsEndpoint, messagesEndpoint, beaconchainEndpoint)
	return apiService, nil
}

// WithTimeout sets a per request timeout, 0 disables it
func WithTimeout(timeout time.Duration) APIClientOption {
	return func(s *APIClient) error {
		if timeout < 0 {
			return errors.Errorf("negative request timeout %s", timeout)
		}
		s.client.Timeout = timeout
		return nil
	}
}

func WithHTTPClient(client *http.Client) APIClientOption {
	return func(s *APIClient) error {
		if client == nil {
			return errors.New("nil http client")
		}
		s.client = client
		return nil
	}
}
