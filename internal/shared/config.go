package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	DatasetSource  string // csv|mysql|http|none
	DatasetPath    string
	DatasetURL     string
	DatasetKey     string
	MySQLDSN       string
	RedisAddr      string // empty disables the query cache
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	LoadWorkers    int
	SubmitRPS      float64
	SubmitBurst    int
	RequestTimeout time.Duration
}

// Load reads the environment, after merging a .env file when one exists.
// Variables already set in the environment win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env present but unreadable")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
		}
		return def
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":"+env("PORT", "8000")),
		MetricsAddr:    env("METRICS_ADDR", ""),
		DatasetSource:  strings.ToLower(env("DATASET_SOURCE", "csv")),
		DatasetPath:    env("DATASET_PATH", "data/reviews.csv"),
		DatasetURL:     env("DATASET_URL", ""),
		DatasetKey:     env("DATASET_API_KEY", ""),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		LoadWorkers:    atoi("LOAD_WORKERS", 8),
		SubmitRPS:      atof("SUBMIT_RPS", 50),
		SubmitBurst:    atoi("SUBMIT_BURST", 100),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
	}
	if c.DatasetSource == "http" && c.DatasetURL == "" {
		log.Warn().Msg("DATASET_SOURCE=http but DATASET_URL is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
