package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/internalpj/crm-api/internal/core/domain"
)

// RequireAuth rejects requests that reached the route without a principal
// attached by Authenticate. This is the route-level authorization rule: every
// route except registration and login sits behind it.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentPrincipal(c); !ok {
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}

// RequireAuthority rejects authenticated requests whose principal does not
// hold any of the given authorities.
func RequireAuthority(authorities ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := CurrentPrincipal(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			for _, a := range authorities {
				if p.HasAuthority(a) {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
