package http

import (
	"net/http"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/njprem/ShipRequest_BackEnd/docs"
	"github.com/njprem/ShipRequest_BackEnd/internal/util"
)

// RegisterSwagger serves the embedded OpenAPI document as JSON and the
// Swagger UI under /swagger.
func RegisterSwagger(e *echo.Echo) {
	registerSwaggerSpec(e, docs.SwaggerYAML)
}

func registerSwaggerSpec(e *echo.Echo, spec []byte) {
	e.GET("/swagger/doc.json", func(c echo.Context) error {
		jsonSpec, err := yaml.YAMLToJSON(spec)
		if err != nil {
			c.Logger().Errorf("convert swagger spec: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("unable to parse swagger spec"))
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, jsonSpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
