package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// クーポンの事前検証API
type CouponHandler struct {
	uc *usecase.CouponUsecase
}

// DI
func NewCouponHandler(uc *usecase.CouponUsecase) *CouponHandler {
	return &CouponHandler{uc: uc}
}

type ValidateCouponRequest struct {
	Code string `json:"code"`
}

func (h *CouponHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/coupons")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/validate", h.validate)
}

func (h *CouponHandler) validate(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ValidateCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ValidateCoupon(c.Request().Context(), userID, req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
