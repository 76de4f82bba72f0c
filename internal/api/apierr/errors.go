package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/potatofarm/internal/model"
)

// ErrorResponse is the wire form of every non-2xx response.
// Error keeps the human-readable message older clients match on;
// Code is the structured form.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeNoSave             = "NO_SAVE"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an ErrorResponse
type httpError struct {
	status int
	body   ErrorResponse
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.body.Error
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.body)
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, ErrorResponse{"User not found", CodeUserNotFound}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, ErrorResponse{"Invalid credentials", CodeInvalidCredentials}}
	case errors.Is(err, model.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, ErrorResponse{"Invalid or expired session", CodeUnauthorized}}
	case errors.Is(err, model.ErrUsernameExists):
		return &httpError{http.StatusConflict, ErrorResponse{"Username already exists", CodeUsernameExists}}
	case errors.Is(err, model.ErrEmailExists):
		return &httpError{http.StatusConflict, ErrorResponse{"Email already exists", CodeEmailExists}}
	case errors.Is(err, model.ErrInvalidEmail):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Invalid email", CodeInvalidEmail}}
	case errors.Is(err, model.ErrMissingFields):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Missing required fields", CodeInvalidRequest}}
	case errors.Is(err, model.ErrSaveNotFound):
		return &httpError{http.StatusNotFound, ErrorResponse{"No save found", CodeNoSave}}
	default:
		return &httpError{http.StatusInternalServerError, ErrorResponse{"Internal server error", CodeInternalError}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, ErrorResponse{message, CodeInvalidRequest}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, ErrorResponse{"Authentication required", CodeUnauthorized}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, ErrorResponse{"Internal server error", CodeInternalError}}
}

// KindForCode maps a wire code to an error kind
func KindForCode(code string) (model.ErrorKind, bool) {
	switch code {
	case CodeUserNotFound:
		return model.KindUserNotFound, true
	case CodeInvalidCredentials:
		return model.KindInvalidCredentials, true
	case CodeUsernameExists, CodeEmailExists:
		return model.KindAlreadyExists, true
	case CodeInvalidEmail:
		return model.KindInvalidEmail, true
	case CodeUnauthorized:
		return model.KindAuth, true
	case CodeNoSave, CodeNotFound:
		return model.KindNotFound, true
	case CodeInvalidRequest:
		return model.KindValidation, true
	default:
		return model.KindUnknown, false
	}
}

// KindForMessage is the compatibility shim for servers that only send a
// free-text error: it recognises the legacy phrases.
func KindForMessage(message string) model.ErrorKind {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "user not found"):
		return model.KindUserNotFound
	case strings.Contains(msg, "invalid credentials"):
		return model.KindInvalidCredentials
	case strings.Contains(msg, "already exists"):
		return model.KindAlreadyExists
	case strings.Contains(msg, "invalid email"):
		return model.KindInvalidEmail
	default:
		return model.KindUnknown
	}
}
