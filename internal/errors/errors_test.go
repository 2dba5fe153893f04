package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND"},
		{"notification not found", fmt.Errorf("mark read: %w", ErrNotificationNotFound), http.StatusNotFound, "NOTIFICATION_NOT_FOUND"},
		{"wrapped capacity", fmt.Errorf("register: %w", ErrCapacityExceeded), http.StatusConflict, "CAPACITY_EXCEEDED"},
		{"permission", ErrPermissionDenied, http.StatusForbidden, "PERMISSION_DENIED"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.code, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalMessages(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("dial tcp 10.0.0.1:3306: refused"))
	assert.Equal(t, "internal server error", httpErr.Message)
}
