package repository

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/maxviazov/users-admin/internal/httpclient"
)

// Domain-level errors repository implementations surface to higher layers.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// MapHTTPError translates upstream status codes to domain errors.
// The upstream error stays in the chain so callers can still reach the HTTPError.
func MapHTTPError(err error) error {
	if err == nil {
		return nil
	}
	switch httpclient.StatusCode(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
