package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevJWTSecret is the fallback signing secret used when SERVER_ENV is
// "development" and no JWT_SECRET is configured. Production startup
// refuses to run with it.
const DevJWTSecret = "chatlift-dev-secret-do-not-use-in-production"

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Stripe     StripeConfig
	Encryption EncryptionConfig
	RateLimit  RateLimitConfig
	Trial      TrialConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	BaseURL        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret     string
	ExpiryDays int
}

type StripeConfig struct {
	SecretKey  string
	PriceID    string
	SuccessURL string
	CancelURL  string
	ReturnURL  string
}

type EncryptionConfig struct {
	Key string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type TrialConfig struct {
	Days int
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryDays) * 24 * time.Hour
}

func (t *TrialConfig) Length() time.Duration {
	return time.Duration(t.Days) * 24 * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("SERVER_BASE_URL", "http://localhost:3000")
	v.SetDefault("SERVER_ALLOWED_ORIGINS", "")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "chatlift")
	v.SetDefault("DATABASE_PASSWORD", "chatlift_secret")
	v.SetDefault("DATABASE_NAME", "chatlift")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY_DAYS", 7)
	v.SetDefault("TRIAL_DAYS", 14)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("STRIPE_SUCCESS_URL", "http://localhost:3000/billing?checkout=success")
	v.SetDefault("STRIPE_CANCEL_URL", "http://localhost:3000/billing?checkout=canceled")
	v.SetDefault("STRIPE_RETURN_URL", "http://localhost:3000/billing")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			BaseURL:        v.GetString("SERVER_BASE_URL"),
			AllowedOrigins: splitList(v.GetString("SERVER_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			ExpiryDays: v.GetInt("JWT_EXPIRY_DAYS"),
		},
		Stripe: StripeConfig{
			SecretKey:  v.GetString("STRIPE_SECRET_KEY"),
			PriceID:    v.GetString("STRIPE_PRICE_ID"),
			SuccessURL: v.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:  v.GetString("STRIPE_CANCEL_URL"),
			ReturnURL:  v.GetString("STRIPE_RETURN_URL"),
		},
		Encryption: EncryptionConfig{
			Key: v.GetString("ENCRYPTION_KEY"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Trial: TrialConfig{
			Days: v.GetInt("TRIAL_DAYS"),
		},
	}

	if err := cfg.resolveJWTSecret(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// resolveJWTSecret enforces the signing-secret policy: a missing secret is
// only tolerated in development, where the well-known dev constant is used.
func (c *Config) resolveJWTSecret() error {
	if c.JWT.Secret != "" && c.JWT.Secret != DevJWTSecret {
		return nil
	}
	if !c.Server.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET must be set when SERVER_ENV=%q", c.Server.Env)
	}
	c.JWT.Secret = DevJWTSecret
	return nil
}
