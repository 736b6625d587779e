package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 配送方法の公開API
type ShippingHandler struct {
	uc *usecase.ShippingUsecase
}

// DI
func NewShippingHandler(uc *usecase.ShippingUsecase) *ShippingHandler {
	return &ShippingHandler{uc: uc}
}

func (h *ShippingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/shipping/methods", h.listMethods)
}

func (h *ShippingHandler) listMethods(c echo.Context) error {
	methods, err := h.uc.ListMethodsForCountry(c.Request().Context(), c.QueryParam("country"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, methods)
}
