package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	SLACacheTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. Empty DatabaseURL selects the in-memory stores; empty RedisURL
// disables the SLA lookup cache.
func FromEnv() Server {
	addr := os.Getenv("DOCTRACK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ttl := 5 * time.Minute
	if raw := os.Getenv("DOCTRACK_SLA_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		SLACacheTTL: ttl,
	}
}
