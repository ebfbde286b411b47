package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/ShipRequest_BackEnd/internal/logging"
	"github.com/njprem/ShipRequest_BackEnd/internal/service"
	"github.com/njprem/ShipRequest_BackEnd/internal/util"
)

const msgBadCredentials = "Incorrect email or password"

type AuthHandler struct {
	auth         *service.AuthService
	log          logging.Logger
	cookieSecure bool
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, log logging.Logger, cookieSecure bool) {
	h := &AuthHandler{
		auth:         auth,
		log:          log.With("component", "auth"),
		cookieSecure: cookieSecure,
	}

	e.POST("/register", h.register)
	e.POST("/token", h.token)
	e.POST("/login", h.login)
	e.POST("/logout", h.logout)
	e.GET("/me", h.me, RequireAuth(auth, h.log))
}

// register accepts JSON (201 with the user) or a browser form (302 to the
// login page).
func (h *AuthHandler) register(c echo.Context) error {
	asForm := !isJSON(c)

	var req RegisterRequest
	if asForm {
		req = RegisterRequest{
			Username: c.FormValue("username"),
			Email:    c.FormValue("email"),
			Password: c.FormValue("password"),
		}
	} else if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	ctx := c.Request().Context()
	user, err := h.auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, service.ErrEmailAlreadyUsed):
			msg = "Email already registered"
		case errors.Is(err, service.ErrUsernameTaken):
			msg = "Username already taken"
		case errors.Is(err, service.ErrValidation):
			msg = err.Error()
		default:
			h.log.Error(ctx, "register failed", "error", err)
			return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
		}
		if asForm {
			return renderPage(c, http.StatusBadRequest, pageRegister, pageData{Error: msg})
		}
		return c.JSON(http.StatusBadRequest, util.Error(msg))
	}

	h.log.Info(ctx, "user registered", "user_id", user.ID)
	if asForm {
		return c.Redirect(http.StatusFound, "/login-page")
	}
	return c.JSON(http.StatusCreated, UserResponse{User: user})
}

// token implements the OAuth2 password flow: form fields username (the
// email) and password.
func (h *AuthHandler) token(c echo.Context) error {
	req, err := readLogin(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	ctx := c.Request().Context()
	res, err := h.auth.Login(ctx, req.identifier(), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, wwwAuthenticate)
			return c.JSON(http.StatusUnauthorized, util.Error(msgBadCredentials))
		}
		h.log.Error(ctx, "token login failed", "error", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: res.Token,
		TokenType:   res.TokenType,
		ExpiresAt:   res.ExpiresAt,
	})
}

func (h *AuthHandler) login(c echo.Context) error {
	req, err := readLogin(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	ctx := c.Request().Context()
	res, err := h.auth.Login(ctx, req.identifier(), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return renderPage(c, http.StatusBadRequest, pageLogin, pageData{Error: msgBadCredentials})
		}
		h.log.Error(ctx, "web login failed", "error", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}

	c.SetCookie(&http.Cookie{
		Name:     accessCookie,
		Value:    "Bearer " + res.Token,
		Path:     "/",
		MaxAge:   int(h.auth.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info(ctx, "user logged in", "user_id", res.User.ID)
	return c.Redirect(http.StatusFound, "/dashboard")
}

// logout only drops the cookie; issued tokens stay valid until they expire.
func (h *AuthHandler) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     accessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/login-page")
}

func (h *AuthHandler) me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c, service.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, UserResponse{User: user})
}

func readLogin(c echo.Context) (LoginRequest, error) {
	if isJSON(c) {
		var req LoginRequest
		err := c.Bind(&req)
		return req, err
	}
	return LoginRequest{
		Email:    c.FormValue("email"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}, nil
}

func isJSON(c echo.Context) bool {
	ct := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	return strings.HasPrefix(ct, echo.MIMEApplicationJSON)
}
