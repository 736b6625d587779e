package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 管理者向け商品API
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

type AdminProductCreateRequest struct {
	SKU            string           `json:"sku"`
	CardID         *int64           `json:"card_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Condition      string           `json:"condition"`
	Language       string           `json:"language"`
	CostPrice      decimal.Decimal  `json:"cost_price"`
	SellingPrice   decimal.Decimal  `json:"selling_price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	IsActive       bool             `json:"is_active"`
	IsFeatured     bool             `json:"is_featured"`

	InitialStock      int64 `json:"initial_stock"`
	LowStockThreshold int64 `json:"low_stock_threshold"`
}

type AdminProductUpdateRequest struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Condition      string           `json:"condition"`
	Language       string           `json:"language"`
	CostPrice      decimal.Decimal  `json:"cost_price"`
	SellingPrice   decimal.Decimal  `json:"selling_price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	IsActive       bool             `json:"is_active"`
	IsFeatured     bool             `json:"is_featured"`
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.remove)
	g.POST("/:id/reprice", h.reprice)
}

func (h *AdminProductHandler) create(c echo.Context) error {
	var req AdminProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), usecase.CreateProductInput{
		SKU:               req.SKU,
		CardID:            req.CardID,
		Name:              req.Name,
		Description:       req.Description,
		Condition:         req.Condition,
		Language:          req.Language,
		CostPrice:         req.CostPrice,
		SellingPrice:      req.SellingPrice,
		CompareAtPrice:    req.CompareAtPrice,
		IsActive:          req.IsActive,
		IsFeatured:        req.IsFeatured,
		InitialStock:      req.InitialStock,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateProduct(c.Request().Context(), id, usecase.UpdateProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Condition:      req.Condition,
		Language:       req.Language,
		CostPrice:      req.CostPrice,
		SellingPrice:   req.SellingPrice,
		CompareAtPrice: req.CompareAtPrice,
		IsActive:       req.IsActive,
		IsFeatured:     req.IsFeatured,
	}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "product updated"})
}

func (h *AdminProductHandler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted"})
}

// 市場価格から売値を引き直す
func (h *AdminProductHandler) reprice(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.RepriceProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
