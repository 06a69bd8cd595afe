package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/internalpj/crm-api/internal/core/domain"
)

// errorResponse is the canonical error body for all API failures: a stable
// machine-readable code, a human message, and the date the error occurred.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewHTTPErrorHandler returns the single place that turns errors into HTTP
// responses:
//   - business-rule violations map to 400 with their own code, logged at warn
//   - validation failures map to 400 VALIDATION_ERROR with per-field messages
//   - missing/insufficient authentication map to 401/403
//   - everything else is a system fault: logged at error with full context,
//     surfaced only as a generic INTERNAL_ERROR
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{
			Code:      code,
			Message:   msg,
			Timestamp: time.Now().UTC().Format(time.DateOnly),
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindBusiness:
			log.Warn().Str("code", de.Code).Str("path", c.Path()).Msg(de.Message)
			return http.StatusBadRequest, de.Code, de.Message
		case domain.KindValidation:
			return http.StatusBadRequest, de.Code, de.Message
		case domain.KindUnauthorized:
			return http.StatusUnauthorized, de.Code, de.Message
		case domain.KindForbidden:
			return http.StatusForbidden, de.Code, de.Message
		}
		// KindInternal falls through to the system-fault path.
		err = de
	}

	// Echo's own errors: router 404/405, oversized bodies, etc.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, codeForStatus(he.Code), fmt.Sprintf("%v", he.Message)
	}

	// Unexpected fault: log the real cause, leak nothing.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, domain.ErrInternal.Code, domain.ErrInternal.Message
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized.Code
	case http.StatusForbidden:
		return domain.ErrForbidden.Code
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return domain.ErrInternal.Code
	}
}
