package response

import (
	"errors"
	"net/http"

	"github.com/streamhive/account-service/internal/domain"
	"github.com/streamhive/account-service/internal/logger"
)

// ErrorBody is the uniform failure envelope:
// {statusCode, message, success:false, errors:[...]}.
type ErrorBody struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// WriteError converts a domain error into the failure envelope. Non-domain
// errors become 500 with a generic message; internal causes are logged but
// never serialized to the caller.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	details := []string{}

	var de *domain.Error
	if errors.As(err, &de) {
		status = statusFromKind(de.Kind)
		message = de.Message
		details = append(details, de.Code)
		for k, v := range de.Meta {
			details = append(details, k+": "+v)
		}
		if de.Cause != nil {
			l := logger.WithCtx(r.Context())
			l.Error().Err(de.Cause).Str("code", de.Code).Msg("request failed")
		}
	} else {
		l := logger.WithCtx(r.Context())
		l.Error().Err(err).Msg("unhandled error")
	}

	WriteJSON(w, status, ErrorBody{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     details,
	})
}

// statusFromKind maps domain error kinds to HTTP status codes.
func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInfrastructure:
		return http.StatusServiceUnavailable
	case domain.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
