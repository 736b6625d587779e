package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者向け注文API
type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

// DI
func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.PATCH("/:id/status", h.updateStatus)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, limit, ok := parsePageLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	in := usecase.AdminOrderListInput{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	}

	if v := c.QueryParam("user_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		in.UserID = &x
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		in.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		in.To = &t
	}

	out, err := h.uc.ListOrders(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateStatus(c.Request().Context(), adminID, orderID, usecase.UpdateOrderStatusInput{
		Status: req.Status,
		Notes:  req.Notes,
	}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "status updated"})
}
