package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// レビューのHTTP。一覧は公開、投稿と「参考になった」は要ログイン。
type ReviewHandler struct {
	uc *usecase.ReviewUsecase
}

// DI
func NewReviewHandler(uc *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/products/:id/reviews", h.list)

	auth := middleware.AuthJWT(cfg)
	e.POST("/products/:id/reviews", h.create, auth)
	e.POST("/reviews/:id/helpful", h.helpful, auth)
}

func (h *ReviewHandler) list(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	page, limit, ok := parsePageLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	out, err := h.uc.ListReviews(c.Request().Context(), productID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	review, err := h.uc.CreateReview(c.Request().Context(), userID, productID, usecase.CreateReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) helpful(c echo.Context) error {
	if _, ok := getUserIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.MarkHelpful(c.Request().Context(), reviewID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "marked as helpful"})
}
