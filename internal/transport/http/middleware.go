package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
	"github.com/njprem/ShipRequest_BackEnd/internal/logging"
	"github.com/njprem/ShipRequest_BackEnd/internal/service"
	"github.com/njprem/ShipRequest_BackEnd/internal/util"
)

const (
	contextUserKey  = "auth.user"
	accessCookie    = "access_token"
	wwwAuthenticate = "Bearer"
)

// RequireAuth resolves the caller from the Authorization header, falling back
// to the access_token cookie set by the web login.
func RequireAuth(auth *service.AuthService, log logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := auth.ResolveCurrentUser(c.Request().Context(), credentialFrom(c))
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					return unauthorized(c, err)
				}
				log.Error(c.Request().Context(), "resolve current user", "error", err)
				return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
			}
			c.Set(contextUserKey, user)
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextUserKey).(*domain.User)
	return user, ok && user != nil
}

func credentialFrom(c echo.Context) string {
	if header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)); header != "" {
		return header
	}
	if cookie, err := c.Cookie(accessCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(c echo.Context, err error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, wwwAuthenticate)
	msg := service.ErrUnauthenticated.Error()
	if errors.Is(err, service.ErrTokenExpired) {
		msg = service.ErrTokenExpired.Error()
	}
	return c.JSON(http.StatusUnauthorized, util.Error(msg))
}
