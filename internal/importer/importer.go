package importer

import (
	"context"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const pageSize = 250

// Importer は外部カタログを取り込み、カードと市場価格を更新する。
type Importer struct {
	client      *Client
	cardRepo    repo.CardRepository
	productRepo repo.ProductRepository
	priceRepo   repo.MarketPriceRepository
}

func New(client *Client, cardRepo repo.CardRepository, productRepo repo.ProductRepository, priceRepo repo.MarketPriceRepository) *Importer {
	return &Importer{
		client:      client,
		cardRepo:    cardRepo,
		productRepo: productRepo,
		priceRepo:   priceRepo,
	}
}

type RunStats struct {
	Sets          int
	Cards         int
	PricesUpdated int
}

// Run は全セットを順に取り込む。1セット失敗しても残りは続ける。
func (im *Importer) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	page := 1
	for {
		sets, totalCount, err := im.client.ListSets(ctx, page, pageSize)
		if err != nil {
			return stats, err
		}

		for _, s := range sets {
			if err := im.importSet(ctx, s, &stats); err != nil {
				log.Error().Err(err).Str("set", s.ID).Msg("set import failed")
				continue
			}
			stats.Sets++
		}

		if page*pageSize >= totalCount || len(sets) == 0 {
			break
		}
		page++
	}

	log.Info().
		Int("sets", stats.Sets).
		Int("cards", stats.Cards).
		Int("prices_updated", stats.PricesUpdated).
		Msg("catalog import finished")
	return stats, nil
}

func (im *Importer) importSet(ctx context.Context, s apiSet, stats *RunStats) error {
	gen, err := im.cardRepo.UpsertGeneration(ctx, model.Generation{
		Name:        s.Series,
		ReleaseYear: releaseYear(s.ReleaseDate),
	})
	if err != nil {
		return err
	}

	set := model.CardSet{
		GenerationID: gen.ID,
		Code:         s.ID,
		Name:         s.Name,
	}
	if t, err := time.Parse("2006/01/02", s.ReleaseDate); err == nil {
		set.ReleaseDate = &t
	}
	set, err = im.cardRepo.UpsertSet(ctx, set)
	if err != nil {
		return err
	}

	page := 1
	for {
		cards, totalCount, err := im.client.ListCardsBySet(ctx, s.ID, page, pageSize)
		if err != nil {
			return err
		}

		for _, c := range cards {
			if err := im.importCard(ctx, set.ID, c, stats); err != nil {
				log.Error().Err(err).Str("card", c.ID).Msg("card import failed")
			}
		}

		if page*pageSize >= totalCount || len(cards) == 0 {
			return nil
		}
		page++
	}
}

func (im *Importer) importCard(ctx context.Context, setID int64, c apiCard, stats *RunStats) error {
	card, err := im.cardRepo.UpsertCard(ctx, model.Card{
		CardSetID:  setID,
		SetNumber:  c.Number,
		GlobalID:   c.ID,
		Name:       c.Name,
		Supertype:  c.Supertype,
		Rarity:     c.Rarity,
		Artist:     c.Artist,
		FlavorText: c.FlavorText,
		IsHolo:     isHoloVariant(c),
		ImageSmall: c.Images.Small,
		ImageLarge: c.Images.Large,
		MarketURL:  c.TCGPlayer.URL,
	})
	if err != nil {
		return err
	}
	stats.Cards++

	market := marketPrice(c)
	if market == nil {
		return nil
	}

	//このカードの販売商品すべてに観測価格を反映
	products, err := im.productRepo.ListByCardID(ctx, card.ID)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, p := range products {
		if err := im.priceRepo.Upsert(ctx, model.MarketPrice{
			ProductID:  p.ID,
			Price:      *market,
			Source:     "tcgplayer",
			Currency:   "USD",
			ObservedAt: now,
		}); err != nil {
			return err
		}
		stats.PricesUpdated++
	}
	return nil
}

// tcgplayerの価格表から1つ選ぶ。holofoil > normal > その他の先頭。
func marketPrice(c apiCard) *decimal.Decimal {
	pick := func(key string) *decimal.Decimal {
		pr, ok := c.TCGPlayer.Prices[key]
		if !ok || pr.Market == nil {
			return nil
		}
		d := decimal.NewFromFloat(*pr.Market).Round(2)
		return &d
	}

	if d := pick("holofoil"); d != nil {
		return d
	}
	if d := pick("normal"); d != nil {
		return d
	}
	for _, pr := range c.TCGPlayer.Prices {
		if pr.Market != nil {
			d := decimal.NewFromFloat(*pr.Market).Round(2)
			return &d
		}
	}
	return nil
}

func isHoloVariant(c apiCard) bool {
	if _, ok := c.TCGPlayer.Prices["holofoil"]; ok {
		return true
	}
	return strings.Contains(strings.ToLower(c.Rarity), "holo")
}

func releaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}
