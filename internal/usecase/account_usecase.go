package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// AccountUsecase は自分自身のプロフィール参照。
// ユーザーの作成・更新は認証基盤側の責務なのでここには無い。
type AccountUsecase struct {
	userRepo repo.UserRepository
}

func NewAccountUsecase(userRepo repo.UserRepository) *AccountUsecase {
	return &AccountUsecase{userRepo: userRepo}
}

func (u *AccountUsecase) GetMe(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}
