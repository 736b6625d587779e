package repository

import (
	"context"

	"app/internal/domain/model"
)

type CardListQuery struct {
	Page      int
	Limit     int
	Q         string
	CardSetID *int64
	Rarity    string
}

// カタログ（世代/セット/カード）の永続化。インポートジョブが書き、公開APIが読む。
type CardRepository interface {
	UpsertGeneration(ctx context.Context, g model.Generation) (model.Generation, error)
	UpsertSet(ctx context.Context, s model.CardSet) (model.CardSet, error)
	UpsertCard(ctx context.Context, c model.Card) (model.Card, error)

	ListSets(ctx context.Context, page int, limit int) ([]model.CardSet, int64, error)
	ListCards(ctx context.Context, q CardListQuery) ([]model.Card, int64, error)
	FindCardByID(ctx context.Context, id int64) (model.Card, error)
}
