package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEventNotFound is returned when a referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrNotificationNotFound is returned when a notification does not exist for the user.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrCapacityExceeded is returned when an event has no seat left.
	ErrCapacityExceeded = errors.New("event is full")
	// ErrNotRegistered is returned when checking in a user without a registration.
	ErrNotRegistered = errors.New("user is not registered for this event")
	// ErrOutsideGeofence is returned when a self check-in happens away from the venue.
	ErrOutsideGeofence = errors.New("check-in location is too far from the venue")
	// ErrAttendanceRejected is returned when attendance photo verification fails.
	ErrAttendanceRejected = errors.New("attendance verification rejected")
	// ErrExternalService is returned when a generative content call fails.
	ErrExternalService = errors.New("external service failure")
	// ErrPermissionDenied is returned when the caller's role does not allow the action.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidCredentials is returned when email, password or role do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidToken is returned when an access token is missing, invalid or revoked.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidEvent is returned when an event fails validation.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrConfirmationRequired is returned when a destructive action is not confirmed.
	ErrConfirmationRequired = errors.New("confirmation required")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND"},
	{ErrNotificationNotFound, http.StatusNotFound, "NOTIFICATION_NOT_FOUND"},
	{ErrCapacityExceeded, http.StatusConflict, "CAPACITY_EXCEEDED"},
	{ErrNotRegistered, http.StatusConflict, "NOT_REGISTERED"},
	{ErrOutsideGeofence, http.StatusForbidden, "OUTSIDE_GEOFENCE"},
	{ErrAttendanceRejected, http.StatusForbidden, "ATTENDANCE_REJECTED"},
	{ErrExternalService, http.StatusBadGateway, "EXTERNAL_SERVICE_FAILURE"},
	{ErrPermissionDenied, http.StatusForbidden, "PERMISSION_DENIED"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrInvalidEvent, http.StatusBadRequest, "INVALID_EVENT"},
	{ErrConfirmationRequired, http.StatusBadRequest, "CONFIRMATION_REQUIRED"},
}

// MapErrorToHTTP maps domain errors, possibly wrapped, to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
