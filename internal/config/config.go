// Package config reads settings from an optional YAML file and the environment.
// Environment variables use the upper-cased key with dots replaced by underscores,
// so gateway.api_key is GATEWAY_API_KEY.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	S3        S3Config        `mapstructure:"s3"`
	Access    AccessConfig    `mapstructure:"access"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Mail      MailConfig      `mapstructure:"mail"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	RequestLogging bool   `mapstructure:"request_logging"`
	// TrustProxy takes the client IP from X-Forwarded-For/X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
	ResetURL   string        `mapstructure:"reset_url"`
}

type GatewayConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type AccessConfig struct {
	Password string `mapstructure:"password"`
}

type SMTPConfig struct {
	Server       string `mapstructure:"server"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	From         string `mapstructure:"from"`
	AuthDisabled bool   `mapstructure:"auth_disabled"`
}

type MailConfig struct {
	// Provider is smtp, resend or log.
	Provider     string `mapstructure:"provider"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	AlertTo      string `mapstructure:"alert_to"`
}

type RateLimitConfig struct {
	RPS        float64       `mapstructure:"rps"`
	Burst      int           `mapstructure:"burst"`
	MaxStrikes int           `mapstructure:"max_strikes"`
	Window     time.Duration `mapstructure:"window"`
	BanTTL     time.Duration `mapstructure:"ban_ttl"`
}

var defaults = map[string]any{
	"server.port":            "8080",
	"server.request_logging": true,
	"server.trust_proxy":     false,
	"database.url":           "",
	"redis.addr":             "",
	"redis.password":         "",
	"auth.jwt_secret":        "",
	"auth.access_ttl":        15 * time.Minute,
	"auth.refresh_ttl":       7 * 24 * time.Hour,
	"auth.reset_url":         "http://localhost:5173/reset-password",
	"gateway.url":            "https://ai.gateway.lovable.dev",
	"gateway.api_key":        "",
	"gateway.model":          "google/gemini-2.5-flash",
	"gateway.timeout":        60 * time.Second,
	"s3.endpoint":            "",
	"s3.access_key":          "",
	"s3.secret_key":          "",
	"s3.bucket":              "product-images",
	"s3.use_ssl":             false,
	"access.password":        "",
	"smtp.server":            "",
	"smtp.port":              "587",
	"smtp.user":              "",
	"smtp.password":          "",
	"smtp.from":              "noreply@ayres-originals.local",
	"smtp.auth_disabled":     false,
	"mail.provider":          "log",
	"mail.resend_api_key":    "",
	"mail.alert_to":          "",
	"ratelimit.rps":          1.0,
	"ratelimit.burst":        3,
	"ratelimit.max_strikes":  5,
	"ratelimit.window":       10 * time.Minute,
	"ratelimit.ban_ttl":      15 * time.Minute,
}

// Load builds the configuration. CONFIG_PATH names an optional YAML file; the environment wins over it.
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gateway.api_key", "GATEWAY_API_KEY", "AI_GATEWAY_API_KEY", "LOVABLE_API_KEY"); err != nil {
		return Config{}, err
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
