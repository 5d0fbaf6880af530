// Package config loads and validates all environment variables at startup.
// Every other package receives typed values; nothing reads os.Getenv directly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port        string   // default "8080"
	Env         string   // "development" | "staging" | "production"
	BaseURL     string   // public origin of this service
	BookingURL  string   // optional call-to-action link in report emails
	CORSOrigins []string // allowed browser origins for the intake endpoint

	// ── Database ──────────────────────────────────────────────────────────────
	DBDriver    string // "postgres" | "sqlite"
	DatabaseURL string

	// ── Duplicate guard ───────────────────────────────────────────────────────
	// Optional. Without REDIS_URL duplicates are detected from the database.
	RedisURL  string
	DedupeTTL time.Duration // default 15m

	// ── Resend ────────────────────────────────────────────────────────────────
	ResendAPIKey  string
	EmailFromAddr string
	EmailFromName string
	SalesBCCAddr  string // optional copy of every report to the sales inbox

	// ── HubSpot ───────────────────────────────────────────────────────────────
	HubSpotToken string // optional; CRM sync is skipped when empty

	// ── Anthropic / DeepSeek ──────────────────────────────────────────────────
	// Both optional. Anthropic writes cover notes when set; DeepSeek is the
	// fallback, or the only writer when Anthropic is not configured.
	AnthropicAPIKey string
	AnthropicModel  string
	DeepSeekAPIKey  string
	DeepSeekModel   string

	// ── Admin ─────────────────────────────────────────────────────────────────
	AdminJWTSecret string // admin routes are disabled when empty outside production

	// ── Worker ────────────────────────────────────────────────────────────────
	WorkerCount  int           // default 3
	PollInterval time.Duration // default 30s
	JobTimeout   time.Duration // default 2m
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads a .env file from the working directory when present, then the
// real environment, and returns a validated Config. Real environment
// variables always take precedence over .env values.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is ignored.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	var errs []error
	p := parser{v: v, errs: &errs}

	c := &Config{
		Port:            v.GetString("PORT"),
		Env:             strings.ToLower(v.GetString("ENV")),
		BaseURL:         v.GetString("BASE_URL"),
		BookingURL:      v.GetString("BOOKING_URL"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		RedisURL:        v.GetString("REDIS_URL"),
		DedupeTTL:       p.duration("DEDUPE_TTL"),
		ResendAPIKey:    v.GetString("RESEND_API_KEY"),
		EmailFromAddr:   v.GetString("EMAIL_FROM_ADDR"),
		EmailFromName:   v.GetString("EMAIL_FROM_NAME"),
		SalesBCCAddr:    v.GetString("SALES_BCC_ADDR"),
		HubSpotToken:    v.GetString("HUBSPOT_TOKEN"),
		AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
		AnthropicModel:  v.GetString("ANTHROPIC_MODEL"),
		DeepSeekAPIKey:  v.GetString("DEEPSEEK_API_KEY"),
		DeepSeekModel:   v.GetString("DEEPSEEK_MODEL"),
		AdminJWTSecret:  v.GetString("ADMIN_JWT_SECRET"),
		WorkerCount:     p.integer("WORKER_COUNT"),
		PollInterval:    p.duration("POLL_INTERVAL"),
		JobTimeout:      p.duration("JOB_TIMEOUT"),
	}

	if c.DBDriver == "" {
		c.DBDriver = "postgres"
		if !c.IsProduction() {
			c.DBDriver = "sqlite"
		}
	}
	if c.DatabaseURL == "" && c.DBDriver == "sqlite" && !c.IsProduction() {
		c.DatabaseURL = "file:assessments.db?_pragma=busy_timeout(5000)"
	}

	errs = append(errs, c.validate())
	return c, errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEDUPE_TTL", "15m")
	v.SetDefault("EMAIL_FROM_ADDR", "assessments@example.com")
	v.SetDefault("EMAIL_FROM_NAME", "AI Readiness Assessments")
	v.SetDefault("ANTHROPIC_MODEL", "claude-sonnet-4-5")
	v.SetDefault("DEEPSEEK_MODEL", "deepseek-chat")
	v.SetDefault("WORKER_COUNT", "3")
	v.SetDefault("POLL_INTERVAL", "30s")
	v.SetDefault("JOB_TIMEOUT", "2m")
}

func (c *Config) validate() error {
	var errs []error

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("missing required env var: DATABASE_URL"))
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}

	if c.IsProduction() {
		if c.DBDriver == "sqlite" {
			errs = append(errs, errors.New("sqlite is not supported in production"))
		}
		required := map[string]string{
			"RESEND_API_KEY":   c.ResendAPIKey,
			"ADMIN_JWT_SECRET": c.AdminJWTSecret,
		}
		for name, val := range required {
			if val == "" {
				errs = append(errs, fmt.Errorf("missing required env var: %s", name))
			}
		}
	}

	return errors.Join(errs...)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

// parser collects conversion errors instead of silently falling back.
type parser struct {
	v    *viper.Viper
	errs *[]error
}

func (p parser) integer(key string) int {
	raw := strings.TrimSpace(p.v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %q is not an integer", key, raw))
	}
	return n
}

// duration accepts Go duration syntax ("30s", "5m") or a plain integer,
// read as seconds.
func (p parser) duration(key string) time.Duration {
	raw := strings.TrimSpace(p.v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %q is not a positive duration", key, raw))
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
