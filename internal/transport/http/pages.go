package http

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
	"github.com/njprem/ShipRequest_BackEnd/internal/logging"
	"github.com/njprem/ShipRequest_BackEnd/internal/service"
	"github.com/njprem/ShipRequest_BackEnd/internal/util"
)

const (
	pageLogin     = "login.html"
	pageRegister  = "register.html"
	pageDashboard = "dashboard.html"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	Title     string
	Error     string
	User      *domain.User
	Shipments []domain.ShipmentRequest
}

// TemplateRenderer renders the embedded HTML pages.
type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: t}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

func RegisterPages(e *echo.Echo, auth *service.AuthService, shipments *service.ShipmentService, log logging.Logger) error {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		return err
	}
	e.Renderer = renderer

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/login-page")
	})
	e.GET("/login-page", func(c echo.Context) error {
		return renderPage(c, http.StatusOK, pageLogin, pageData{})
	})
	e.GET("/register-page", func(c echo.Context) error {
		return renderPage(c, http.StatusOK, pageRegister, pageData{})
	})
	e.GET("/dashboard", func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return unauthorized(c, service.ErrUnauthenticated)
		}
		items, err := shipments.List(c.Request().Context(), user)
		if err != nil {
			log.Error(c.Request().Context(), "load dashboard", "error", err)
			return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
		}
		return renderPage(c, http.StatusOK, pageDashboard, pageData{User: user, Shipments: items})
	}, RequireAuth(auth, log))
	return nil
}

// renderPage falls back to a JSON error when no renderer is installed.
func renderPage(c echo.Context, status int, name string, data pageData) error {
	if c.Echo().Renderer == nil {
		if data.Error != "" {
			return c.JSON(status, util.Error(data.Error))
		}
		return c.NoContent(status)
	}
	if data.Title == "" {
		data.Title = pageTitles[name]
	}
	return c.Render(status, name, data)
}

var pageTitles = map[string]string{
	pageLogin:     "Sign in",
	pageRegister:  "Register",
	pageDashboard: "Dashboard",
}
