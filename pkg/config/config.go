package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins string
	// DevAutoLoginEmail is only honored by binaries built with the devauth tag.
	DevAutoLoginEmail string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
	TimeZone string
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
	Issuer    string
}

type LogConfig struct {
	Level  string
	Format string
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Env)
	return env == "production" || env == "prod"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "crudefi")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("JWT_EXPIRES_IN", "24h")
	v.SetDefault("JWT_ISSUER", "crudefi-api")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_EMAIL", "admin@crudefi.local")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
}

// Load reads configuration from the process environment. Call godotenv first
// if a .env file should be honored.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	// SERVER_PORT wins over PORT when both are set.
	_ = v.BindEnv("PORT", "SERVER_PORT", "PORT")
	_ = v.BindEnv("DATABASE_URL")

	expiresIn, err := ParseExpiresIn(v.GetString("JWT_EXPIRES_IN"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:              v.GetString("PORT"),
			Env:               v.GetString("APP_ENV"),
			CORSOrigins:       v.GetString("CORS_ORIGINS"),
			DevAutoLoginEmail: v.GetString("DEV_AUTO_LOGIN_EMAIL"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			URL:      v.GetString("DATABASE_URL"),
			TimeZone: v.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("JWT_SECRET"),
			ExpiresIn: expiresIn,
			Issuer:    v.GetString("JWT_ISSUER"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Seed: SeedConfig{
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		c.JWT.Secret = "crudefi-dev-secret-change-me"
	}
	return nil
}

// ParseExpiresIn accepts Go durations ("12h", "90m") and day counts ("7d").
func ParseExpiresIn(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 24 * time.Hour, nil
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid JWT_EXPIRES_IN %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid JWT_EXPIRES_IN %q", s)
	}
	return d, nil
}
