package config

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port        string
	AllowOrigin string

	// Statement column headers. These are a contract with the card issuer's
	// statement format and differ per issuer/locale, so they stay
	// configurable instead of hardcoded.
	ColCardNumber string
	ColDate       string
	ColMerchant   string
	ColAmount     string
	ColIndustry   string
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		AllowOrigin:   getenv("ALLOW_ORIGIN", "http://localhost:3000"),
		ColCardNumber: getenv("STMT_COL_CARD", "카드번호"),
		ColDate:       getenv("STMT_COL_DATE", "승인일자"),
		ColMerchant:   getenv("STMT_COL_MERCHANT", "가맹점명"),
		ColAmount:     getenv("STMT_COL_AMOUNT", "거래금액(원화)"),
		ColIndustry:   getenv("STMT_COL_INDUSTRY", "가맹점업종"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "postgres"),
			getenv("DB_PASSWORD", "postgres"),
			getenv("DB_NAME", "card_expense"),
			getenv("DB_PORT", "5432"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}
