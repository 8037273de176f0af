// Package config loads operational defaults for the scan engine and its
// optional daemon/scheduler from the environment, in the teacher's
// getEnv/getEnvBool style.
package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Concurrency         int
	TimeoutPerCandidate time.Duration
	Resolver            string
	RdapBootstrapURL    string
	WhoisServersPath    string

	RedisAddr     string
	HTTPPort      string
	EnableMetrics bool
}

func Load() *Config {
	return &Config{
		Concurrency:         getEnvInt("DOMAINGUARD_CONCURRENCY", 2*runtime.NumCPU()),
		TimeoutPerCandidate: getEnvDuration("DOMAINGUARD_TIMEOUT_MS", 15_000*time.Millisecond),
		Resolver:            getEnv("DOMAINGUARD_RESOLVER", ""),
		RdapBootstrapURL:    getEnv("DOMAINGUARD_RDAP_BOOTSTRAP_URL", "https://data.iana.org/rdap/dns.json"),
		WhoisServersPath:    getEnv("DOMAINGUARD_WHOIS_SERVERS_PATH", ""),
		RedisAddr:           getEnv("DOMAINGUARD_REDIS_ADDR", "localhost:6379"),
		HTTPPort:            getEnv("DOMAINGUARD_PORT", "8080"),
		EnableMetrics:       getEnvBool("DOMAINGUARD_ENABLE_METRICS", true),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		return strings.ToLower(v) == "true" || v == "1"
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Millisecond
		}
	}
	return fallback
}
