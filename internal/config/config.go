package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5433）

	JWTSecret string // JWT署名シークレット

	PaymentWebhookSecret string // 決済webhookのHMACシークレット

	AmqpURL string // 通知イベント用RabbitMQ（空なら通知はログのみ）

	CardAPIBaseURL string // カードカタログAPI（pokemontcg.io）
	CardAPIKey     string // カードカタログAPIキー（任意）

	GoEnv string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),

		AmqpURL: os.Getenv("AMQP_URL"),

		CardAPIBaseURL: os.Getenv("CARD_API_BASE_URL"),
		CardAPIKey:     os.Getenv("CARD_API_KEY"),

		GoEnv: os.Getenv("GO_ENV"),
	}

	if cfg.CardAPIBaseURL == "" {
		cfg.CardAPIBaseURL = "https://api.pokemontcg.io/v2"
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PaymentWebhookSecret == "" {
		return Config{}, fmt.Errorf("PAYMENT_WEBHOOK_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
