package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponUsecase はカートに対するクーポンの事前検証。
// カウンタを進めるのはチェックアウトだけで、ここでは読むだけ。
type CouponUsecase struct {
	couponRepo   repo.CouponRepository
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	clock        Clock
}

func NewCouponUsecase(
	couponRepo repo.CouponRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	clock Clock,
) *CouponUsecase {
	return &CouponUsecase{
		couponRepo:   couponRepo,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		clock:        clock,
	}
}

type ValidateCouponOutput struct {
	Valid          bool            `json:"valid"`
	Reason         string          `json:"reason"`
	DiscountType   string          `json:"discount_type,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	CartTotal      decimal.Decimal `json:"cart_total"`
}

// ValidateCoupon は現在のACTIVEカートに対してコードを検証する。
// 無効でも200で理由を返す（コードの打ち間違いだけ404）。
func (u *CouponUsecase) ValidateCoupon(ctx context.Context, userID int64, code string) (ValidateCouponOutput, error) {
	if userID <= 0 {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusBadRequest, "missing code")
	}

	c, err := u.couponRepo.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	if err != nil {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	total := decimal.Zero
	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == nil {
		items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
		if err != nil {
			return ValidateCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			total = total.Add(it.UnitPriceSnapshot.Mul(decimal.NewFromInt(it.Quantity)))
		}
	} else if err != repo.ErrNotFound {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := ValidateCouponOutput{CartTotal: total, DiscountAmount: decimal.Zero}

	reason := c.Validate(u.clock.Now())
	if reason == model.CouponValid {
		hasAllowlist, allowed, err := u.couponRepo.UserAllowlist(ctx, c.ID, userID)
		if err != nil {
			return ValidateCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if hasAllowlist && !allowed {
			reason = model.CouponNotForUser
		}
	}
	if reason == model.CouponValid && c.UsageLimitPerUser != nil {
		used, err := u.couponRepo.CountUsageByUser(ctx, c.ID, userID)
		if err != nil {
			return ValidateCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if used >= *c.UsageLimitPerUser {
			reason = model.CouponPerUserLimit
		}
	}

	out.Reason = string(reason)
	if reason != model.CouponValid {
		return out, nil
	}

	out.Valid = true
	out.DiscountType = string(c.Type)
	out.DiscountAmount = c.CalculateDiscount(total)
	return out, nil
}
