package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /ordersのHTTP。確定・見積り・取消はCheckoutUsecase、参照はOrderUsecase。
type OrderHandler struct {
	checkout *usecase.CheckoutUsecase
	orders   *usecase.OrderUsecase
}

// DI
func NewOrderHandler(checkout *usecase.CheckoutUsecase, orders *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

type ShippingAddressRequest struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type OrderCreateRequest struct {
	ShippingMethodID int64                  `json:"shipping_method_id"`
	ShippingAddress  ShippingAddressRequest `json:"shipping_address"`
	AddressID        *int64                 `json:"address_id"`
	CouponCode       string                 `json:"coupon_code"`
}

type CheckoutPreviewRequest struct {
	ShippingMethodID int64  `json:"shipping_method_id"`
	Country          string `json:"country"`
	CouponCode       string `json:"coupon_code"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.POST("/preview", h.preview)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/cancel", h.cancel)
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）

	idemKey := c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.checkout.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		ShippingMethodID: req.ShippingMethodID,
		ShippingAddress: usecase.ShippingAddressInput{
			Name:       req.ShippingAddress.Name,
			Street:     req.ShippingAddress.Street,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		AddressID:      req.AddressID,
		CouponCode:     req.CouponCode,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		return writeError(c, err)
	}

	//再送なら200、新規なら201
	if out.Replayed {
		return c.JSON(http.StatusOK, out)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) preview(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutPreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.checkout.Preview(c.Request().Context(), userID, usecase.CheckoutPreviewInput{
		ShippingMethodID: req.ShippingMethodID,
		Country:          req.Country,
		CouponCode:       req.CouponCode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, limit, okPL := parsePageLimit(c)
	if !okPL {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	out, err := h.orders.ListMyOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orders.GetMyOrderDetail(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.checkout.CancelOrder(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "order canceled"})
}
