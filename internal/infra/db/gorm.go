package db

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect() (*gorm.DB, error) {
	// DATABASE_URL があれば最優先で使う
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return open(dsn)
	}

	host := getenv("POSTGRES_HOST", "localhost")
	port := getenv("POSTGRES_PORT", "5432")
	user := getenv("POSTGRES_USER", "postgres")
	pass := getenv("POSTGRES_PASSWORD", "postgres")
	name := getenv("POSTGRES_DB", "app")
	ssl := getenv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl,
	)

	return open(dsn)
}

func open(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	//チェックアウトが同時に走るのでプールは控えめに固定
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return gdb, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
