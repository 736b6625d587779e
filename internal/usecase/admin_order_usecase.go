package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 注文ステータスの遷移表。ここに無い遷移は拒否する。
var orderTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:   {model.OrderStatusPaid, model.OrderStatusCanceled},
	model.OrderStatusPaid:      {model.OrderStatusShipped, model.OrderStatusCanceled, model.OrderStatusRefunded},
	model.OrderStatusShipped:   {model.OrderStatusDelivered},
	model.OrderStatusDelivered: {model.OrderStatusRefunded},
}

func canTransition(from model.OrderStatus, to model.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AdminOrderUsecase は管理者向けの注文操作。
type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	orderRepo repo.OrderRepository
	clock     Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orderRepo repo.OrderRepository, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orderRepo: orderRepo, clock: clock}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type UpdateOrderStatusInput struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (u *AdminOrderUsecase) ListOrders(ctx context.Context, in AdminOrderListInput) (OrderListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Status != "" && !validOrderStatus(model.OrderStatus(in.Status)) {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, total, err := u.orderRepo.ListAdmin(ctx, repo.AdminOrderListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		UserID: in.UserID,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderListOutput{Orders: orders, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// UpdateStatus は遷移表に従ってステータスを進める。
// CANCELED / REFUNDED への遷移では在庫を戻す。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminUserID int64, orderID int64, in UpdateOrderStatusInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	next := model.OrderStatus(in.Status)
	if !validOrderStatus(next) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	now := u.clock.Now()

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !canTransition(o.Status, next) {
			return NewHTTPError(http.StatusConflict, "invalid status transition")
		}

		if next == model.OrderStatusCanceled || next == model.OrderStatusRefunded {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				if err := r.Inventory().RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, next, now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return r.OrderStatusHistory().Create(ctx, model.OrderStatusHistory{
			OrderID:     orderID,
			Status:      next,
			Notes:       in.Notes,
			CreatedByID: &adminUserID,
		})
	})
}

func validOrderStatus(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusShipped,
		model.OrderStatusDelivered, model.OrderStatusCanceled, model.OrderStatusRefunded:
		return true
	}
	return false
}
