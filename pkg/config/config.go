package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	AppEnv       string
	IsStaging    bool
	IsProduction bool

	JWTSecret string
	Port      string

	// database selection: sqlite file by default, mysql when a DSN is set
	DBDriver string
	DBDSN    string
	DBPath   string

	LogDir string

	// runtime tunables
	RateLimitWindowSeconds int
	RateLimitCapacity      int
	DuplicateWindowSeconds int
	ThreadCacheTTLSeconds  int
	ThreadCacheMaxItems    int
)

// loadAppEnv loads .env for local/staging runs only; production reads the
// host environment exclusively.
func loadAppEnv() {
	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "production" {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env loaded: %v", err)
	}
}

func init() {
	loadAppEnv()

	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "" {
		AppEnv = "staging"
	}
	IsStaging = AppEnv == "staging"
	IsProduction = AppEnv == "production"

	JWTSecret = os.Getenv("JWT_SECRET_KEY")
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "5000"
	}

	DBDriver = os.Getenv("DB_DRIVER")
	DBDSN = os.Getenv("DB_DSN")
	if DBDriver == "" {
		if DBDSN != "" {
			DBDriver = "mysql"
		} else {
			DBDriver = "sqlite"
		}
	}
	DBPath = os.Getenv("DB_PATH")
	if DBPath == "" {
		DBPath = "app.db"
	}

	LogDir = os.Getenv("LOG_DIR")
	if LogDir == "" {
		LogDir = "logs"
	}

	// Tunables with defaults. Thread cache TTL defaults to the classic
	// 60-second window for rendered conversations.
	RateLimitWindowSeconds = atoiOr(os.Getenv("RATE_LIMIT_WINDOW_SECONDS"), 10)
	RateLimitCapacity = atoiOr(os.Getenv("RATE_LIMIT_CAPACITY"), 5)
	DuplicateWindowSeconds = atoiOr(os.Getenv("DUPLICATE_WINDOW_SECONDS"), 45)
	ThreadCacheTTLSeconds = atoiOr(os.Getenv("THREAD_CACHE_TTL_SECONDS"), 60)
	ThreadCacheMaxItems = atoiOr(os.Getenv("THREAD_CACHE_MAX_ITEMS"), 500)

	if IsProduction && JWTSecret == "" {
		log.Fatal("JWT_SECRET_KEY must be set in production")
	}

	log.Printf("[config] AppEnv=%s driver=%s port=%s", AppEnv, DBDriver, Port)
	log.Printf("[config] RateLimit window=%ds capacity=%d dupWindow=%ds threadTTL=%ds cacheMax=%d",
		RateLimitWindowSeconds, RateLimitCapacity, DuplicateWindowSeconds, ThreadCacheTTLSeconds, ThreadCacheMaxItems)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
