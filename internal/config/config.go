package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory = "memory"

	defaultAccessTokenTTL = 30 * time.Minute
)

type Config struct {
	Port            string
	DBDriver        string
	DatabaseURL     string
	JWTSecret       string
	AccessTokenTTL  string
	BcryptCost      int
	AllowOrigins    []string
	LogLevel        string
	LogstashTCPAddr string
	CookieSecure    bool
	RunMigrations   bool
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	driver := strings.ToLower(getenv("DB_DRIVER", "pgx"))
	dsn := getenv("DATABASE_URL", "")
	if driver != DriverMemory {
		dsn = must("DATABASE_URL")
	}

	cost := 10
	if v, err := strconv.Atoi(getenv("BCRYPT_COST", "10")); err == nil && v > 0 {
		cost = v
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		DBDriver:        driver,
		DatabaseURL:     dsn,
		JWTSecret:       must("JWT_SECRET"),
		AccessTokenTTL:  getenv("ACCESS_TOKEN_TTL", "30m"),
		BcryptCost:      cost,
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),
		CookieSecure:    getenv("COOKIE_SECURE", "false") == "true",
		RunMigrations:   getenv("RUN_MIGRATIONS", "true") == "true",
	}
}

// TokenTTL parses AccessTokenTTL, falling back to 30 minutes when the value is
// missing, malformed or not positive.
func (c Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.AccessTokenTTL))
	if err != nil || d <= 0 {
		return defaultAccessTokenTTL
	}
	return d
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
