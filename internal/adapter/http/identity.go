package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"loanflow-backend/internal/domain/identity"
)

// The identity provider is an external collaborator: it authenticates the
// user and forwards a trusted id/name/role triple in these headers.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

const principalKey = "principal"

// RequirePrincipal resolves the acting principal from the identity headers
// and rejects requests that carry none or an unknown role.
func RequirePrincipal() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			uid := strings.TrimSpace(req.Header.Get(HeaderUserID))
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing " + HeaderUserID})
			}
			role, ok := identity.ParseRole(strings.TrimSpace(req.Header.Get(HeaderUserRole)))
			if !ok {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or unknown " + HeaderUserRole})
			}
			c.Set(principalKey, identity.Principal{
				ID:   uid,
				Name: strings.TrimSpace(req.Header.Get(HeaderUserName)),
				Role: role,
			})
			return next(c)
		}
	}
}

func principalFrom(c echo.Context) identity.Principal {
	p, _ := c.Get(principalKey).(identity.Principal)
	return p
}
