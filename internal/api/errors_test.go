package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped topic not found", fmt.Errorf("%w: cobol", domain.ErrTopicNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate user", domain.ErrUserAlreadyExists, http.StatusConflict, "CONFLICT"},
		{"empty path", domain.ErrEmptyPath, http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{"empty code", domain.ErrEmptyCode, http.StatusBadRequest, "BAD_REQUEST"},
		{"invalid level", fmt.Errorf("%w: %q", domain.ErrInvalidSkillLevel, "guru"), http.StatusBadRequest, "BAD_REQUEST"},
		{"api error passthrough", ErrBadRequestWith("bad body"), http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := FromError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d; want %d", status, tt.wantStatus)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %q; want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := ErrInternalWith("internal server error", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false; want true")
	}
	if err.Error() != "internal server error" {
		t.Errorf("Error() = %q", err.Error())
	}
}
