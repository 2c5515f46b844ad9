package config

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Config is read from the environment (optionally seeded from .env). Command line
// flags with the same long names override it, which is mostly useful locally.
type Config struct {
	Env  string `long:"env" env:"ENV" default:"development" description:"runtime environment"`
	Host string `long:"host" env:"HOST" description:"listen host"`
	Port string `long:"port" env:"PORT" default:"8080" description:"listen port"`

	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info"`
	LogFile  string `long:"log-file" env:"LOG_FILE" description:"rotated log file, stdout only when empty"`

	BookingAPIURL   string        `long:"booking-api-url" env:"BOOKING_API_URL" description:"pricing and booking API"`
	CorporateAPIURL string        `long:"corporate-api-url" env:"CORPORATE_API_URL" description:"corporate accounts API"`
	AssistantAPIURL string        `long:"assistant-api-url" env:"ASSISTANT_API_URL" description:"chat assistant API"`
	APITimeout      time.Duration `long:"api-timeout" env:"API_TIMEOUT" default:"10s"`

	FlowRedisURI  string `long:"flow-redis-uri" env:"FLOW_REDIS_URI" description:"flows, sessions and chat transcripts"`
	CacheRedisURI string `long:"cache-redis-uri" env:"CACHE_REDIS_URI" description:"catalog cache, grouping and rate limits"`

	FlowTTL    time.Duration `long:"flow-ttl" env:"FLOW_TTL" default:"2h"`
	SessionTTL time.Duration `long:"session-ttl" env:"SESSION_TTL" default:"12h"`

	LegacyHost    string `long:"legacy-host" env:"LEGACY_HOST"`
	CanonicalHost string `long:"canonical-host" env:"CANONICAL_HOST"`

	CORSAllowedOrigins []string `long:"cors-allowed-origin" env:"CORS_ALLOWED_ORIGINS" env-delim:","`

	DisplayTimezone string `long:"display-timezone" env:"DISPLAY_TIMEZONE" default:"Europe/London"`
	OpenAPILocation string `long:"openapi-location" env:"OPENAPI_LOCATION" description:"overrides the embedded api/openapi.yaml"`

	LoginRateLimit string `long:"login-rate-limit" env:"LOGIN_RATE_LIMIT" default:"10-M"`
	ChatRateLimit  string `long:"chat-rate-limit" env:"CHAT_RATE_LIMIT" default:"30-M"`

	SessionCookieName   string `long:"session-cookie-name" env:"SESSION_COOKIE_NAME" default:"tw_session"`
	SessionCookieSecure bool   `long:"session-cookie-secure" env:"SESSION_COOKIE_SECURE"`
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c Config) Location() *time.Location {
	location, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}

	return location
}

// Load reads envFile when present and parses args on top of the environment.
func Load(envFile string, args []string) (Config, error) {
	_ = godotenv.Load(envFile)

	var cfg Config
	parser := flags.NewParser(&cfg, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(args); err != nil {
		return Config{}, fmt.Errorf("parsing configuration: %w", err)
	}

	if cfg.CacheRedisURI == "" {
		cfg.CacheRedisURI = cfg.FlowRedisURI
	}

	return cfg, nil
}
