package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/jmartinemployment/acord-pcs-crm/pkg/constant"
)

const (
	DefaultPort               = "8080"
	DefaultAccessTokenExpiry  = "15m"
	DefaultRefreshTokenExpiry = "7d"
)

// Placeholder secrets shipped in example env files; refused at startup.
var knownDefaultSecrets = map[string]bool{
	"default-secret":         true,
	"default-refresh-secret": true,
	"changeme":               true,
}

type Config struct {
	Env                string
	Port               string
	DBURL              string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	LockoutMaxAttempts int
	LockoutWindow      time.Duration
}

// Load reads configuration from the environment. Missing required values,
// malformed durations and weak secrets are fatal: the process refuses to
// start rather than fall back to insecure defaults.
func Load() *Config {
	cfg := &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", DefaultPort),
		DBURL:              mustGetEnv("DB_URL"),
		AccessTokenSecret:  mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessTokenExpiry:  mustParseExpiry("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiry),
		RefreshTokenExpiry: mustParseExpiry("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiry),
		LockoutMaxAttempts: getEnvAsInt("LOCKOUT_MAX_ATTEMPTS", constant.LockoutMaxAttempts),
		LockoutWindow:      constant.LockoutWindow,
	}

	validateSecret("ACCESS_TOKEN_SECRET", cfg.AccessTokenSecret)
	validateSecret("REFRESH_TOKEN_SECRET", cfg.RefreshTokenSecret)

	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		log.Fatalf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	return cfg
}

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry parses duration strings of the form "900s", "15m", "12h",
// "7d". Unlike time.ParseDuration it accepts a day suffix and rejects
// compound values.
func ParseExpiry(s string) (time.Duration, error) {
	m := expiryPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid expiry %q: want <number><s|m|h|d>", s)
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q: %w", s, err)
	}

	switch m[2] {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	default:
		return time.Duration(value) * 24 * time.Hour, nil
	}
}

func mustParseExpiry(key, defaultVal string) time.Duration {
	d, err := ParseExpiry(getEnv(key, defaultVal))
	if err != nil {
		log.Fatalf("Invalid config %s: %v", key, err)
	}
	return d
}

func validateSecret(key, value string) {
	if len(value) < constant.MinSecretLength {
		log.Fatalf("Weak config %s: need at least %d bytes", key, constant.MinSecretLength)
	}
	if knownDefaultSecrets[value] {
		log.Fatalf("Weak config %s: refusing to run with a placeholder secret", key)
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
