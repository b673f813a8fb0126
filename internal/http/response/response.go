package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profbridge/profbridge-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps service-layer errors onto HTTP statuses. Anything
// outside the known taxonomy becomes an opaque 500; the detail belongs in
// logs, not in the response body.
func RespondServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		RespondError(c, http.StatusBadRequest, "invalid_request", vErr)
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", services.ErrNotFound)
		return
	}
	if errors.Is(err, services.ErrSafetyBlocked) {
		RespondError(c, http.StatusBadGateway, "safety_blocked", services.ErrSafetyBlocked)
		return
	}
	var pErr *services.ParseError
	if errors.As(err, &pErr) {
		RespondError(c, http.StatusBadGateway, "unparseable_response", pErr)
		return
	}
	if errors.Is(err, services.ErrServiceUnavailable) {
		RespondError(c, http.StatusServiceUnavailable, "service_unavailable", services.ErrServiceUnavailable)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal error"))
}
