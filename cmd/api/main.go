package main

import (
	"os"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/notify"
	infraRepo "app/internal/infra/repository"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい（コンテナでは環境変数を直接渡す）
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if cfg.GoEnv == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.Generation{},
		&model.CardSet{},
		&model.Card{},
		&model.Product{},
		&model.Inventory{},
		&model.InventoryAdjustment{},
		&model.MarketPrice{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStatusHistory{},
		&model.Coupon{},
		&model.CouponUsage{},
		&model.Sale{},
		&model.Review{},
		&model.ShippingZone{},
		&model.ShippingMethod{},
		&model.ShippingRate{},
		&model.Payment{},
		&model.EmailLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	marketPriceRepo := infraRepo.NewMarketPriceGormRepository(gormDB)
	cardRepo := infraRepo.NewCardGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	historyRepo := infraRepo.NewOrderStatusHistoryGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	saleRepo := infraRepo.NewSaleGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	shippingRepo := infraRepo.NewShippingGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentGormRepository(gormDB)
	emailLogRepo := infraRepo.NewEmailLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//通知。AMQP_URLが無ければログのみ。
	var notifier usecase.Notifier
	if cfg.AmqpURL != "" {
		pub, err := notify.NewPublisher(cfg.AmqpURL, emailLogRepo)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq connect failed")
		}
		defer pub.Close()
		notifier = pub
	} else {
		log.Warn().Msg("AMQP_URL not set, notifications are log-only")
		notifier = notify.NopPublisher{}
	}

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, marketPriceRepo, saleRepo, clock)
	cardUC := usecase.NewCardUsecase(cardRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo, inventoryRepo)
	checkoutUC := usecase.NewCheckoutUsecase(
		txManager,
		orderRepo, orderItemRepo,
		cartRepo, cartItemRepo,
		productRepo, inventoryRepo,
		couponRepo, saleRepo, shippingRepo, addressRepo,
		clock, idGen, notifier,
	)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo, historyRepo)
	couponUC := usecase.NewCouponUsecase(couponRepo, cartRepo, cartItemRepo, clock)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo, orderRepo)
	shippingUC := usecase.NewShippingUsecase(shippingRepo)
	inventoryUC := usecase.NewInventoryUsecase(inventoryRepo, productRepo, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderRepo, clock)
	paymentUC := usecase.NewPaymentUsecase(txManager, paymentRepo, orderRepo, clock, notifier)
	accountUC := usecase.NewAccountUsecase(userRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)

	//Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	//Handler生成・ルート登録
	handler.NewProductHandler(productUC).RegisterRoutes(e)
	handler.NewCardHandler(cardUC).RegisterRoutes(e)
	handler.NewShippingHandler(shippingUC).RegisterRoutes(e)
	handler.NewAccountHandler(accountUC, addressUC).RegisterRoutes(e, cfg)
	handler.NewCartHandler(cartUC).RegisterRoutes(e, cfg)
	handler.NewOrderHandler(checkoutUC, orderUC).RegisterRoutes(e, cfg)
	handler.NewCouponHandler(couponUC).RegisterRoutes(e, cfg)
	handler.NewReviewHandler(reviewUC).RegisterRoutes(e, cfg)
	handler.NewPaymentHandler(paymentUC, cfg).RegisterRoutes(e)
	handler.NewAdminProductHandler(productUC).RegisterRoutes(e, cfg)
	handler.NewAdminInventoryHandler(inventoryUC).RegisterRoutes(e, cfg)
	handler.NewAdminOrderHandler(adminOrderUC).RegisterRoutes(e, cfg)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("starting api server")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
