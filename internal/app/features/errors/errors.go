// internal/app/features/errors/errors.go

// Package errors centralizes HTTP error responses. Every handler reports
// failures through an ErrorLogger so the log line and the JSON body stay
// consistent, and WriteDomainError is the single place where domain error
// kinds map to status codes.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"go.uber.org/zap"

	stderrors "errors"
)

// ErrorLogger logs handler failures and writes the matching JSON response.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger backed by the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

type errorBody struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Fields  []domainerr.FieldError `json:"fields,omitempty"`
}

// JSON writes v with the given status code. Shared by every feature handler.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// LogServerError logs an unexpected failure with its operation name and
// writes a 500 with a generic message. The underlying error never reaches
// the client.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, op string, err error, userMsg string) {
	e.log.Error(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	if userMsg == "" {
		userMsg = "An internal error occurred."
	}
	JSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Message: userMsg})
}

// LogBadRequest logs a malformed request and writes a 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, op string, err error, userMsg string) {
	e.log.Warn(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	if userMsg == "" {
		userMsg = "Invalid request."
	}
	JSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Message: userMsg})
}

// WriteDomainError maps a store error to its HTTP response:
//
//	ValidationError   → 422 with per-field reasons
//	ErrNotFound       → 404
//	ErrInvalidState   → 409
//	ErrDeadlinePassed → 409
//	anything else     → 500 via LogServerError
func (e *ErrorLogger) WriteDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if ve, ok := domainerr.AsValidation(err); ok {
		JSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation_failed", Fields: ve.Errors})
		return
	}
	switch {
	case stderrors.Is(err, domainerr.ErrNotFound):
		JSON(w, http.StatusNotFound, errorBody{Error: "not_found"})
	case stderrors.Is(err, domainerr.ErrDeadlinePassed):
		JSON(w, http.StatusConflict, errorBody{Error: "deadline_passed", Message: "The registration deadline has passed."})
	case stderrors.Is(err, domainerr.ErrInvalidState):
		JSON(w, http.StatusConflict, errorBody{Error: "invalid_state"})
	default:
		e.LogServerError(w, r, op, err, "")
	}
}
