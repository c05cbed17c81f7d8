package config

import (
	"os"
	"time"
)

// CacheConfig defines settings for the public catalog response cache.
// Caching is disabled when Enabled is false or no Redis client is
// available; only GET responses are ever cached.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenvDefault("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenvDefault("CACHE_TTL", "30s")),
		Prefix:  getenvDefault("CACHE_PREFIX", "cache"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
