// internal/config/config.go
//
// Environment-driven configuration. A `.env` file in the working directory
// is loaded first when present; real environment variables win over it.
//
//   PORT              HTTP port                      (5175)
//   LOG_LEVEL         zerolog level                  (info)
//   DICTIONARY_FILE   word list (.txt or .json)      (embedded default)
//   DB_PATH           SQLite file                    (./data/app.db)
//   JWT_SECRET        HS256 secret                   (dev_secret_change_me)
//   JWT_EXPIRES_DAYS  token lifetime in days         (14)
//   COOKIE_NAME       auth cookie name               (ladder_token)
//   CLIENT_ORIGIN     allowed CORS origin            (http://localhost:5173)
//   APP_ENV           "production" → secure cookies  (development)
//   DAILY_SALT        daily ladder HMAC salt         (local_dev_salt)
//   HINT_MAX_VISITS   hint search cap, 0 = no cap    (50000)
//   SESSION_TTL       drop games idle this long      (24h)

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Port           string
	LogLevel       zerolog.Level
	DictionaryFile string
	DBPath         string
	JWTSecret      string
	JWTTTL         time.Duration
	CookieName     string
	ClientOrigin   string
	Production     bool
	DailySalt      string
	HintMaxVisits  int
	SessionTTL     time.Duration
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (*Config, error) {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	days, err := getInt("JWT_EXPIRES_DAYS", 14)
	if err != nil {
		return nil, err
	}
	visits, err := getInt("HINT_MAX_VISITS", 50000)
	if err != nil {
		return nil, err
	}
	if visits < 0 {
		return nil, fmt.Errorf("HINT_MAX_VISITS: must be >= 0, got %d", visits)
	}
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL: must be > 0, got %s", ttl)
	}

	return &Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       lvl,
		DictionaryFile: os.Getenv("DICTIONARY_FILE"),
		DBPath:         getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTTTL:         time.Duration(days) * 24 * time.Hour,
		CookieName:     getEnv("COOKIE_NAME", "ladder_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("APP_ENV") == "production",
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		HintMaxVisits:  visits,
		SessionTTL:     ttl,
	}, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}
