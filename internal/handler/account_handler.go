package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /meのHTTP（プロフィールと住所帳）
type AccountHandler struct {
	accountUC *usecase.AccountUsecase
	addressUC *usecase.AddressUsecase
}

// DI
func NewAccountHandler(accountUC *usecase.AccountUsecase, addressUC *usecase.AddressUsecase) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, addressUC: addressUC}
}

type SaveAddressRequest struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

func (r SaveAddressRequest) toInput() usecase.SaveAddressInput {
	return usecase.SaveAddressInput{
		Name:       r.Name,
		Street:     r.Street,
		Number:     r.Number,
		City:       r.City,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		Phone:      r.Phone,
	}
}

// /me, /me/addresses を登録
func (h *AccountHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/me")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.getMe)
	g.GET("/addresses", h.listAddresses)
	g.POST("/addresses", h.createAddress)
	g.PATCH("/addresses/:id", h.updateAddress)
	g.DELETE("/addresses/:id", h.deleteAddress)
	g.POST("/addresses/:id/default", h.setDefaultAddress)
}

func (h *AccountHandler) getMe(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	user, err := h.accountUC.GetMe(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) listAddresses(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	list, err := h.addressUC.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AccountHandler) createAddress(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req SaveAddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	created, err := h.addressUC.Create(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *AccountHandler) updateAddress(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	addressID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SaveAddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	updated, err := h.addressUC.Update(c.Request().Context(), userID, addressID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AccountHandler) deleteAddress(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	addressID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.addressUC.Delete(c.Request().Context(), userID, addressID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) setDefaultAddress(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	addressID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.addressUC.SetDefault(c.Request().Context(), userID, addressID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "default address updated"})
}
