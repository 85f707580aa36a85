package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DBDSN             string
	LogFile           string
	TemplateDir       string
	SeedOnStart       bool
	LowStockThreshold int
	DonationMinQty    int
}

func Load() Config {
	// Optional .env in the working directory; system env wins.
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file, using system env")
	}

	cfg := Config{
		Port:              getenv("PORT", "8080"),
		DBDSN:             getenv("DB_DSN", "expyra.db"), // sqlite file in project root
		LogFile:           getenv("LOG_FILE", "./expyra.log"),
		TemplateDir:       getenv("TEMPLATE_DIR", "./web/templates"),
		SeedOnStart:       getenv("SEED_ON_START", "false") == "true",
		LowStockThreshold: getint("LOW_STOCK_THRESHOLD", 5),
		DonationMinQty:    getint("DONATION_MIN_QTY", 20),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s SEED_ON_START=%t LOW_STOCK_THRESHOLD=%d DONATION_MIN_QTY=%d",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.SeedOnStart, cfg.LowStockThreshold, cfg.DonationMinQty)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}
