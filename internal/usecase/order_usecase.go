package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// OrderUsecase は購入者向けの注文参照。
type OrderUsecase struct {
	orderRepo         repo.OrderRepository
	orderItemRepo     repo.OrderItemRepository
	statusHistoryRepo repo.OrderStatusHistoryRepository
}

func NewOrderUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	statusHistoryRepo repo.OrderStatusHistoryRepository,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:         orderRepo,
		orderItemRepo:     orderItemRepo,
		statusHistoryRepo: statusHistoryRepo,
	}
}

type OrderListOutput struct {
	Orders []model.Order `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

type OrderDetailOutput struct {
	Order   model.Order                `json:"order"`
	Items   []model.OrderItem          `json:"items"`
	History []model.OrderStatusHistory `json:"history"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	orders, total, err := u.orderRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderListOutput{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderDetailOutput, error) {
	if userID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		//他人の注文は存在しない扱い
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	history, err := u.statusHistoryRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderDetailOutput{Order: o, Items: items, History: history}, nil
}
