package httpserver

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"movieapi/errs"
)

// claimsContextKey is where verified token claims are stored on the echo
// context for downstream handlers.
const claimsContextKey = "auth.claims"

// errUnauthorized is returned for every authentication failure so the
// response does not reveal which check rejected the request.
var errUnauthorized = errs.Errorf(errs.EUNAUTHORIZED, "invalid or missing credentials")

// requireAuth accepts either the static X-API-Key header or a bearer
// token verified by the configured validator. With authentication
// disabled it passes everything through.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.AuthEnabled {
			return next(c)
		}

		if key := c.Request().Header.Get("X-API-Key"); key != "" {
			if s.APIKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(s.APIKey)) == 1 {
				return next(c)
			}
			slog.Warn("request with invalid api key")
			return errUnauthorized
		}

		authz := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(authz, "Bearer ")
		if !ok || token == "" || s.TokenValidator == nil {
			return errUnauthorized
		}

		claims, err := s.TokenValidator.Verify(c.Request().Context(), token)
		if err != nil {
			return err
		}

		c.Set(claimsContextKey, claims)
		return next(c)
	}
}
