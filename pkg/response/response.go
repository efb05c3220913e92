// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/users-admin/internal/httpclient"
	"github.com/maxviazov/users-admin/internal/notify"
	"github.com/maxviazov/users-admin/internal/repository"
	"github.com/maxviazov/users-admin/internal/service"
	"github.com/maxviazov/users-admin/internal/view"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error         string                `json:"error"`
	Message       string                `json:"message,omitempty"`
	FieldErrors   []service.FieldError  `json:"field_errors,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	// repository sentinels first: they wrap the upstream HTTPError they were derived from
	switch {
	case errors.Is(err, view.ErrInvalidParams):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_params", Message: err.Error()}
	case errors.Is(err, view.ErrInvalidPage), errors.Is(err, view.ErrInvalidPageSize), errors.Is(err, view.ErrRowOutOfRange):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_pagination", Message: err.Error()}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, ErrorPayload{Error: "conflict"}
	case errors.Is(err, view.ErrStaleSelection):
		return http.StatusConflict, ErrorPayload{Error: "stale_selection", Message: err.Error()}
	case isUpstreamRejection(err):
		return upstreamRejection(err)
	case httpclient.StatusCode(err) != 0, httpclient.IsTransport(err):
		return http.StatusBadGateway, ErrorPayload{Error: "upstream_error", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// isUpstreamRejection matches upstream 4xx answers that have no domain sentinel of their own.
func isUpstreamRejection(err error) bool {
	code := httpclient.StatusCode(err)
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}

// upstreamRejection passes an upstream 422 through as is and any other 4xx as 400,
// with the upstream body as message when there is one.
func upstreamRejection(err error) (int, ErrorPayload) {
	var he *httpclient.HTTPError
	errors.As(err, &he)

	status := http.StatusBadRequest
	if he.StatusCode == http.StatusUnprocessableEntity {
		status = http.StatusUnprocessableEntity
	}
	msg := strings.TrimSpace(he.Body)
	if msg == "" {
		msg = he.Error()
	}
	return status, ErrorPayload{Error: "upstream_rejected", Message: msg}
}

// WriteError writes an error response with the notifications raised so far and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	payload.Notifications = notify.InboxFrom(c.Request.Context()).Items()
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
