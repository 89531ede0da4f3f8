package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	HostawayBase  string
	HostawayKey   string
	SourceFile    string
	FetchRPS      int
	FetchPageSize int
	FetchWorkers  int
	CacheTTL      time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/flexrev?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		HostawayBase:  env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		HostawayKey:   env("HOSTAWAY_API_KEY", ""),
		SourceFile:    env("SOURCE_FILE", "data/hostaway-mock.json"),
		FetchRPS:      atoi("FETCH_RPS", 5),
		FetchPageSize: atoi("FETCH_PAGE_SIZE", 100),
		FetchWorkers:  atoi("FETCH_WORKERS", 4),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
	}
	if c.HostawayKey == "" {
		log.Warn().Str("file", c.SourceFile).Msg("HOSTAWAY_API_KEY is empty; serving from local export file")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
