package clientapi

import "github.com/pkg/errors"

// ErrMissingField is returned when a required key is absent (or null) in a response body
var ErrMissingField = errors.New("missing field in response")

func missingField(endpoint string, field string) error {
	return errors.Wrapf(ErrMissingField, "%s response has no %s", endpoint, field)
}
