package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/importer"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// 外部カタログの取り込みジョブ。cronから叩く想定。
func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.Generation{},
		&model.CardSet{},
		&model.Card{},
		&model.MarketPrice{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	//Ctrl-C / SIGTERMで中断できるように
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := importer.NewClient(cfg.CardAPIBaseURL, cfg.CardAPIKey)
	im := importer.New(
		client,
		infraRepo.NewCardGormRepository(gormDB),
		infraRepo.NewProductGormRepository(gormDB),
		infraRepo.NewMarketPriceGormRepository(gormDB),
	)

	stats, err := im.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).
			Int("sets", stats.Sets).
			Int("cards", stats.Cards).
			Msg("import failed")
	}
}
