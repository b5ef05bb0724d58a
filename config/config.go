package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names the generative backend implementation.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config aggregates every setting the daemon needs.
type Config struct {
	Server     ServerConfig
	Generative GenerativeConfig
	Bot        BotConfig
	Content    ContentConfig
	Log        LogConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// GenerativeConfig selects the model backend and the escalation pair.
type GenerativeConfig struct {
	Provider      Provider
	APIKey        string
	PrimaryModel  string
	FallbackModel string
}

// BotConfig groups the dialogue settings.
type BotConfig struct {
	AdminConversationID string
	Timezone            *time.Location
	RechargeAmounts     []int
}

// ContentConfig covers the scraped site and the promotional image.
type ContentConfig struct {
	SiteURL   string
	ImagePath string
	ImageMIME string
	SiteTTL   time.Duration
	PitchTTL  time.Duration
}

// LogConfig tunes the structured logger.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads the configuration from environment variables and applies
// defaults for everything optional.
func Load() (*Config, error) {
	server, err := loadServer()
	if err != nil {
		return nil, err
	}

	gen, err := loadGenerative()
	if err != nil {
		return nil, err
	}

	bot, err := loadBot()
	if err != nil {
		return nil, err
	}

	content, err := loadContent()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:     server,
		Generative: gen,
		Bot:        bot,
		Content:    content,
		Log: LogConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "text"),
		},
	}, nil
}

func loadServer() (ServerConfig, error) {
	port := envOr("PORT", "8080")
	if strings.ContainsAny(port, " \t") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	addr := port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	timeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{Addr: addr, ShutdownTimeout: timeout}, nil
}

func loadGenerative() (GenerativeConfig, error) {
	provider := Provider(strings.ToLower(envOr("MODEL_PROVIDER", string(ProviderOpenAI))))
	switch provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return GenerativeConfig{}, fmt.Errorf("unknown MODEL_PROVIDER %q", provider)
	}

	var key, primary, fallback string
	switch provider {
	case ProviderOpenAI:
		key = os.Getenv("OPENAI_API_KEY")
		primary = envOr("PRIMARY_MODEL", "gpt-4o-mini")
		fallback = envOr("FALLBACK_MODEL", "gpt-4o")
	case ProviderAnthropic:
		key = os.Getenv("ANTHROPIC_API_KEY")
		primary = envOr("PRIMARY_MODEL", "claude-3-5-haiku-latest")
		fallback = envOr("FALLBACK_MODEL", "claude-sonnet-4-0")
	}

	if key == "" {
		return GenerativeConfig{}, fmt.Errorf("missing API key for provider %q", provider)
	}

	return GenerativeConfig{
		Provider:      provider,
		APIKey:        key,
		PrimaryModel:  primary,
		FallbackModel: fallback,
	}, nil
}

func loadBot() (BotConfig, error) {
	tzName := envOr("BOT_TIMEZONE", "America/Mexico_City")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return BotConfig{}, fmt.Errorf("invalid BOT_TIMEZONE %q: %w", tzName, err)
	}

	amounts, err := parseAmounts(envOr("RECHARGE_AMOUNTS", "110,160,210"))
	if err != nil {
		return BotConfig{}, err
	}

	return BotConfig{
		AdminConversationID: os.Getenv("ADMIN_CONVERSATION_ID"),
		Timezone:            loc,
		RechargeAmounts:     amounts,
	}, nil
}

func loadContent() (ContentConfig, error) {
	siteTTL, err := envDuration("SITE_CACHE_TTL", 6*time.Hour)
	if err != nil {
		return ContentConfig{}, err
	}
	pitchTTL, err := envDuration("PITCH_CACHE_TTL", 2*time.Hour)
	if err != nil {
		return ContentConfig{}, err
	}

	return ContentConfig{
		SiteURL:   envOr("SITE_URL", "https://celtia.mx"),
		ImagePath: envOr("COMPANY_IMAGE_PATH", "assets/celtia.png"),
		ImageMIME: envOr("COMPANY_IMAGE_MIME", "image/png"),
		SiteTTL:   siteTTL,
		PitchTTL:  pitchTTL,
	}, nil
}

func parseAmounts(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	amounts := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid RECHARGE_AMOUNTS entry %q", p)
		}
		amounts = append(amounts, n)
	}
	if len(amounts) == 0 {
		return nil, fmt.Errorf("RECHARGE_AMOUNTS must list at least one amount")
	}
	return amounts, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return d, nil
}
