package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者向け在庫API
type AdminInventoryHandler struct {
	uc *usecase.InventoryUsecase
}

// DI
func NewAdminInventoryHandler(uc *usecase.InventoryUsecase) *AdminInventoryHandler {
	return &AdminInventoryHandler{uc: uc}
}

type AdjustStockRequest struct {
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
}

func (h *AdminInventoryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/inventory")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("/low-stock", h.lowStock)
	g.GET("/:product_id", h.getStock)
	g.PATCH("/:product_id", h.adjustStock)
}

func (h *AdminInventoryHandler) lowStock(c echo.Context) error {
	rows, err := h.uc.LowStockReport(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AdminInventoryHandler) getStock(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	out, err := h.uc.GetStock(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminInventoryHandler) adjustStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdjustStock(c.Request().Context(), adminID, productID, usecase.AdjustStockInput{
		Quantity: req.Quantity,
		Reason:   req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
