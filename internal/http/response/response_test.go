package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/profbridge/profbridge-backend/internal/services"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "validation",
			err:         services.NewValidationError("name is required"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "invalid_request",
			wantMessage: "name is required",
		},
		{
			name:       "wrapped validation",
			err:        fmt.Errorf("create class: %w", services.NewValidationError("name is required")),
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "not found",
			err:        services.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "safety blocked",
			err:        fmt.Errorf("chat: %w", services.ErrSafetyBlocked),
			wantStatus: http.StatusBadGateway,
			wantCode:   "safety_blocked",
		},
		{
			name:       "unparseable model output",
			err:        &services.ParseError{Raw: "not json"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "unparseable_response",
		},
		{
			name:       "service unavailable",
			err:        services.ErrServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "service_unavailable",
		},
		{
			name:        "unknown error stays opaque",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "internal_error",
			wantMessage: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			RespondServiceError(c, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", envelope.Error.Code, tt.wantCode)
			}
			if tt.wantMessage != "" && envelope.Error.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", envelope.Error.Message, tt.wantMessage)
			}
		})
	}
}

func TestUnknownErrorDetailNotLeaked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondServiceError(c, errors.New("dial tcp 10.0.0.5:5432: i/o timeout"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "10.0.0.5") || strings.Contains(body, "dial tcp") {
		t.Errorf("internal detail leaked: %s", body)
	}
}
