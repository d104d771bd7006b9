package server

import (
	"net/http"

	"github.com/matzehuels/stackorder/pkg/errors"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// StatusForCode maps an error code to an HTTP status.
func StatusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidElement, errors.ErrCodeInvalidType,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidManifest:
		return http.StatusBadRequest
	case errors.ErrCodeCircularDependency, errors.ErrCodeElementNotFound:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusForCode(code)

	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}

	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// fail logs server-side failures and writes the error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusForCode(errors.GetCode(err)) == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestIDFromContext(r.Context()))
	}
	writeError(w, r, err)
}
