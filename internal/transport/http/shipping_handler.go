package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/ShipRequest_BackEnd/internal/logging"
	"github.com/njprem/ShipRequest_BackEnd/internal/service"
	"github.com/njprem/ShipRequest_BackEnd/internal/util"
)

type ShippingHandler struct {
	shipments *service.ShipmentService
	log       logging.Logger
}

// ShipmentPayload is the JSON body for create and update.
type ShipmentPayload struct {
	ProductName *string  `json:"product_name" example:"Laptop"`
	Weight      *float64 `json:"weight" example:"2.5"`
	Value       *float64 `json:"value" example:"1200"`
}

var errMissingShipmentFields = errors.New("product_name, weight and value are required")

func RegisterShipping(e *echo.Echo, auth *service.AuthService, shipments *service.ShipmentService, log logging.Logger) {
	h := &ShippingHandler{
		shipments: shipments,
		log:       log.With("component", "shipping"),
	}

	g := e.Group("/shipping-requests", RequireAuth(auth, h.log))
	g.POST("", h.create)
	g.GET("", h.list)
	g.PUT("/:id", h.update)
}

func (h *ShippingHandler) create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c, service.ErrUnauthenticated)
	}
	in, err := readShipment(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	created, err := h.shipments.Create(c.Request().Context(), user, in)
	if err != nil {
		return h.fail(c, "create", err)
	}
	h.log.Info(c.Request().Context(), "shipping request created", "id", created.ID, "user_id", user.ID)
	return c.JSON(http.StatusOK, created)
}

func (h *ShippingHandler) list(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c, service.ErrUnauthenticated)
	}
	items, err := h.shipments.List(c.Request().Context(), user)
	if err != nil {
		return h.fail(c, "list", err)
	}
	return c.JSON(http.StatusOK, items)
}

// update accepts JSON, a form body, or query parameters.
func (h *ShippingHandler) update(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c, service.ErrUnauthenticated)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be an integer"))
	}
	in, err := readShipment(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	updated, err := h.shipments.Update(c.Request().Context(), user, id, in)
	if err != nil {
		return h.fail(c, "update", err)
	}
	h.log.Info(c.Request().Context(), "shipping request updated", "id", updated.ID, "user_id", user.ID)
	return c.JSON(http.StatusOK, updated)
}

func (h *ShippingHandler) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrShipmentNotFound):
		return c.JSON(http.StatusNotFound, util.Error(service.ErrShipmentNotFound.Error()))
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrUnauthenticated):
		return unauthorized(c, err)
	default:
		h.log.Error(c.Request().Context(), "shipping request "+op+" failed", "error", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}
}

func readShipment(c echo.Context) (service.ShipmentInput, error) {
	if isJSON(c) {
		var p ShipmentPayload
		if err := c.Bind(&p); err != nil {
			return service.ShipmentInput{}, errors.New("invalid request body")
		}
		if p.ProductName == nil || p.Weight == nil || p.Value == nil {
			return service.ShipmentInput{}, errMissingShipmentFields
		}
		return service.ShipmentInput{ProductName: *p.ProductName, Weight: *p.Weight, Value: *p.Value}, nil
	}

	name := c.FormValue("product_name")
	rawWeight := strings.TrimSpace(c.FormValue("weight"))
	rawValue := strings.TrimSpace(c.FormValue("value"))
	if name == "" || rawWeight == "" || rawValue == "" {
		return service.ShipmentInput{}, errMissingShipmentFields
	}
	weight, err := strconv.ParseFloat(rawWeight, 64)
	if err != nil {
		return service.ShipmentInput{}, errors.New("weight must be a number")
	}
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return service.ShipmentInput{}, errors.New("value must be a number")
	}
	return service.ShipmentInput{ProductName: name, Weight: weight, Value: value}, nil
}
