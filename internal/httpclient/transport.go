package httpclient

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/users-admin/internal/trace"
)

// loggingRoundTripper logs every outbound call and forwards the inbound request id.
type loggingRoundTripper struct {
	inner http.RoundTripper
	log   zerolog.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := trace.RequestIDFromContext(req.Context())
	if requestID == "" {
		requestID = req.Header.Get(trace.HeaderRequestID)
	}
	if requestID == "" {
		requestID = trace.GenerateID()
	}
	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	req.Header.Set(trace.HeaderRequestID, requestID)

	resp, err := l.inner.RoundTrip(req)
	if err != nil {
		l.log.Error().
			Err(err).
			Str("method", req.Method).
			Str("url", req.URL.Redacted()).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("upstream request failed")
		return nil, err
	}

	event := l.log.Debug()
	if resp.StatusCode >= http.StatusBadRequest {
		event = l.log.Warn()
	}
	event.
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("upstream request completed")
	return resp, nil
}
