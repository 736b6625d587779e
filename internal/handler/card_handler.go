package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// カードカタログの公開API
type CardHandler struct {
	uc *usecase.CardUsecase
}

// DI
func NewCardHandler(uc *usecase.CardUsecase) *CardHandler {
	return &CardHandler{uc: uc}
}

func (h *CardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/sets", h.listSets)
	e.GET("/cards", h.listCards)
	e.GET("/cards/:id", h.detail)
}

func (h *CardHandler) listSets(c echo.Context) error {
	page, limit, ok := parsePageLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	out, err := h.uc.ListSets(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CardHandler) listCards(c echo.Context) error {
	page, limit, ok := parsePageLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	var setID *int64
	if v := c.QueryParam("set_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid set_id"})
		}
		setID = &x
	}

	out, err := h.uc.ListCards(c.Request().Context(), usecase.CardListInput{
		Page:      page,
		Limit:     limit,
		Q:         c.QueryParam("q"),
		CardSetID: setID,
		Rarity:    c.QueryParam("rarity"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CardHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	card, err := h.uc.GetCard(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, card)
}

// page/limitのクエリをまとめて読む
func parsePageLimit(c echo.Context) (int, int, bool) {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		limit = l
	}

	return page, limit, true
}
