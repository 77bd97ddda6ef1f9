package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/kickoff/internal/model"
	"github.com/mcoot/kickoff/internal/services/admin"
	"github.com/mcoot/kickoff/internal/services/fixture"
	"github.com/mcoot/kickoff/internal/services/roster"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeNameRequired         = "NAME_REQUIRED"
	CodeNameTooLong          = "NAME_TOO_LONG"
	CodeNameTaken            = "NAME_TAKEN"
	CodeDeviceRegistered     = "DEVICE_REGISTERED"
	CodeClientIDRequired     = "CLIENT_ID_REQUIRED"
	CodeInvalidAdminPassword = "INVALID_ADMIN_PASSWORD"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeNotRegistered        = "NOT_REGISTERED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Describe returns the status and body WriteError would produce for err
func Describe(err error) (int, APIError) {
	he := toHTTPError(err)
	return he.status, he.apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Validation
	case errors.Is(err, roster.ErrNameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeNameRequired, "Name is required"}}
	case errors.Is(err, roster.ErrNameTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeNameTooLong, "Name must be at most 25 characters"}}
	case errors.Is(err, model.ErrNameTaken):
		return &httpError{http.StatusBadRequest, APIError{CodeNameTaken, "This name is already registered, please choose another"}}
	case errors.Is(err, model.ErrClientIDRegistered):
		return &httpError{http.StatusBadRequest, APIError{CodeDeviceRegistered, "This device is already registered, unregister first"}}
	case errors.Is(err, roster.ErrClientIDRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeClientIDRequired, "clientId is required"}}
	case errors.Is(err, fixture.ErrInvalidTime):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	// Not found
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, roster.ErrNotRegistered):
		return &httpError{http.StatusNotFound, APIError{CodeNotRegistered, "You have not registered"}}

	// Pay and delete answer a bad password with 403; see NewAdminPasswordError
	case errors.Is(err, admin.ErrInvalidAdminPassword):
		return &httpError{http.StatusForbidden, APIError{CodeInvalidAdminPassword, "Wrong admin password"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, internalMessage(err)}}
	}
}

func internalMessage(err error) string {
	if err == nil {
		return "Internal server error"
	}
	return err.Error()
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewAdminPasswordError creates a wrong admin password error with the given status
func NewAdminPasswordError(status int) error {
	return &httpError{status, APIError{CodeInvalidAdminPassword, "Wrong admin password"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
