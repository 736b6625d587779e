package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CardUsecase はカードカタログ（世代/セット/カード）の公開参照。
type CardUsecase struct {
	cardRepo repo.CardRepository
}

func NewCardUsecase(cardRepo repo.CardRepository) *CardUsecase {
	return &CardUsecase{cardRepo: cardRepo}
}

type CardSetListOutput struct {
	Sets  []model.CardSet `json:"sets"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type CardListInput struct {
	Page      int
	Limit     int
	Q         string
	CardSetID *int64
	Rarity    string
}

type CardListOutput struct {
	Cards []model.Card `json:"cards"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *CardUsecase) ListSets(ctx context.Context, page int, limit int) (CardSetListOutput, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	sets, total, err := u.cardRepo.ListSets(ctx, page, limit)
	if err != nil {
		return CardSetListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CardSetListOutput{Sets: sets, Total: total, Page: page, Limit: limit}, nil
}

func (u *CardUsecase) ListCards(ctx context.Context, in CardListInput) (CardListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.CardSetID != nil && *in.CardSetID <= 0 {
		return CardListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid set")
	}

	cards, total, err := u.cardRepo.ListCards(ctx, repo.CardListQuery{
		Page:      in.Page,
		Limit:     in.Limit,
		Q:         in.Q,
		CardSetID: in.CardSetID,
		Rarity:    in.Rarity,
	})
	if err != nil {
		return CardListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CardListOutput{Cards: cards, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *CardUsecase) GetCard(ctx context.Context, id int64) (model.Card, error) {
	if id <= 0 {
		return model.Card{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	c, err := u.cardRepo.FindCardByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Card{}, NewHTTPError(http.StatusNotFound, "card not found")
	}
	if err != nil {
		return model.Card{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}
