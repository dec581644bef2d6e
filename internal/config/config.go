package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/godilite/feedback-ratings/internal/rating"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	CacheEnabled          bool
	CacheTTL              time.Duration
	GRPCPort              int
	GRPCReflectionEnabled bool
	GRPCRecoveryEnabled   bool
	GRPCMaxRecvBytes      int
	HTTPPort              int
	HTTPRateLimit         float64
	HTTPRateBurst         int
	CORSAllowedOrigins    []string
	ConfigFile            string
	Gauge                 GaugeConfig
}

// GaugeConfig is the presentation block of the satisfaction gauge. It can be
// overridden from the YAML file named by CONFIG_FILE.
type GaugeConfig struct {
	Radius   int           `yaml:"radius"`
	Width    int           `yaml:"width"`
	MaxValue float64       `yaml:"max_value"`
	Colors   []string      `yaml:"colors"`
	Duration time.Duration `yaml:"duration"`
}

type fileConfig struct {
	Gauge GaugeConfig `yaml:"gauge"`
	HTTP  struct {
		RateLimit float64  `yaml:"rate_limit"`
		RateBurst int      `yaml:"rate_burst"`
		Origins   []string `yaml:"cors_allowed_origins"`
	} `yaml:"http"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	defaults := rating.DefaultGaugeOptions()

	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DBPath:                getEnv("DB_PATH", "./data/ratings.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		CacheEnabled:          getBool("CACHE_ENABLED", true),
		CacheTTL:              getDuration("CACHE_TTL", 10*time.Minute),
		GRPCPort:              getInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		GRPCRecoveryEnabled:   getBool("GRPC_RECOVERY_ENABLED", true),
		GRPCMaxRecvBytes:      getInt("GRPC_MAX_RECV_BYTES", 4<<20),
		HTTPPort:              getInt("HTTP_PORT", 8080),
		HTTPRateLimit:         getFloat("HTTP_RATE_LIMIT", 20),
		HTTPRateBurst:         getInt("HTTP_RATE_BURST", 40),
		CORSAllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ConfigFile:            os.Getenv("CONFIG_FILE"),
		Gauge: GaugeConfig{
			Radius:   defaults.Radius,
			Width:    defaults.Width,
			MaxValue: defaults.MaxValue,
			Colors:   []string{defaults.Colors[0], defaults.Colors[1]},
			Duration: defaults.Duration,
		},
	}
}

// Load reads the environment and then applies the YAML overlay, if any.
func Load() (*Config, error) {
	cfg := LoadFromEnv()
	if cfg.ConfigFile == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := cfg.ApplyYAML(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyYAML overlays the non-zero values of a YAML document on cfg.
func (c *Config) ApplyYAML(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	g := fc.Gauge
	if g.Radius > 0 {
		c.Gauge.Radius = g.Radius
	}
	if g.Width > 0 {
		c.Gauge.Width = g.Width
	}
	if g.MaxValue > 0 {
		c.Gauge.MaxValue = g.MaxValue
	}
	if g.Duration > 0 {
		c.Gauge.Duration = g.Duration
	}
	switch len(g.Colors) {
	case 0:
	case 2:
		c.Gauge.Colors = g.Colors
	default:
		return fmt.Errorf("parse config file: gauge.colors needs exactly 2 entries, got %d", len(g.Colors))
	}

	if fc.HTTP.RateLimit > 0 {
		c.HTTPRateLimit = fc.HTTP.RateLimit
	}
	if fc.HTTP.RateBurst > 0 {
		c.HTTPRateBurst = fc.HTTP.RateBurst
	}
	if len(fc.HTTP.Origins) > 0 {
		c.CORSAllowedOrigins = fc.HTTP.Origins
	}
	return nil
}

// GaugeOptions converts the gauge block into core options.
func (c *Config) GaugeOptions() rating.GaugeOptions {
	opts := rating.DefaultGaugeOptions()
	opts.Radius = c.Gauge.Radius
	opts.Width = c.Gauge.Width
	opts.MaxValue = c.Gauge.MaxValue
	opts.Duration = c.Gauge.Duration
	if len(c.Gauge.Colors) == 2 {
		opts.Colors = [2]string{c.Gauge.Colors[0], c.Gauge.Colors[1]}
	}
	return opts
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
