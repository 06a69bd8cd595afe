package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/internalpj/crm-api/internal/api/metrics"
	"github.com/internalpj/crm-api/internal/core/domain"
	"github.com/internalpj/crm-api/internal/core/ports"
	"github.com/internalpj/crm-api/internal/core/token"
)

// principalKey is the echo context key the authenticated principal is stored
// under for the remainder of request processing.
const principalKey = "principal"

const bearerScheme = "bearer"

// Authenticate is the per-request authentication filter. It never rejects:
// every failure path simply proceeds without a principal, and the decision to
// reject anonymous requests belongs to RequireAuth on the route.
//
//  1. No Authorization header, or one without the Bearer scheme: anonymous.
//  2. Token fails validation (signature, structure, expiry): anonymous.
//  3. Token subject no longer resolves to a live user (e.g. soft-deleted
//     after issuance): anonymous. A token must not outlive its account.
//  4. Otherwise a Principal with the role-derived authority is attached.
func Authenticate(tokens *token.Service, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				metrics.AuthDecisionsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			if !tokens.Validate(raw) {
				metrics.AuthDecisionsTotal.WithLabelValues("invalid_token").Inc()
				return next(c)
			}

			userID, err := tokens.SubjectUserID(raw)
			if err != nil {
				metrics.AuthDecisionsTotal.WithLabelValues("invalid_token").Inc()
				return next(c)
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				metrics.AuthDecisionsTotal.WithLabelValues("unknown_subject").Inc()
				return next(c)
			}

			c.Set(principalKey, domain.NewPrincipal(user))
			metrics.AuthDecisionsTotal.WithLabelValues("authenticated").Inc()
			return next(c)
		}
	}
}

// CurrentPrincipal returns the principal attached by Authenticate, if any.
func CurrentPrincipal(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", false
	}
	return parts[1], true
}
