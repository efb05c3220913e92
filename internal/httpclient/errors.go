package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// HTTPError is returned for any upstream response outside 2xx.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request failed with status code %d %s: %s %s",
		e.StatusCode, http.StatusText(e.StatusCode), e.Method, e.URL)
}

// StatusCode reports the upstream status carried by err, or 0 when err is not an HTTPError.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// IsTransport reports whether err is a failure to reach the upstream at all
// (dial, TLS, timeout), as opposed to an HTTP error status.
func IsTransport(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue)
}
