package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	TokenStoreFile  = "file"
	TokenStoreRedis = "redis"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Redis   RedisConfig   `yaml:"redis"`
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	App     AppConfig     `yaml:"app"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	ConfigURL      string `yaml:"config_url"`
	RolesNamespace string `yaml:"roles_namespace"`
	// RateLimit caps outgoing API requests per second; 0 disables it.
	RateLimit int `yaml:"rate_limit"`
	RateBurst int `yaml:"rate_burst"`
}

type SessionConfig struct {
	Store     string `yaml:"store"`
	Profile   string `yaml:"profile"`
	TokenFile string `yaml:"token_file"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ServerConfig struct {
	Port           string `yaml:"port"`
	ConfigTemplate string `yaml:"config_template"`
}

type AuthConfig struct {
	ClientSecret string `yaml:"client_secret"`
}

type AppConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	Version     string `yaml:"version"`
}

// Load reads the environment (and a .env file when present), then overlays
// the YAML profile at profilePath when one is given.
func Load(profilePath string) (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", ""),
			ConfigURL:      getEnv("CONFIG_URL", ""),
			RolesNamespace: getEnv("ROLES_NAMESPACE", "https://ci.com.au"),
			RateLimit:      getEnvAsInt("API_RATE_LIMIT", 0),
			RateBurst:      getEnvAsInt("API_RATE_BURST", 1),
		},
		Session: SessionConfig{
			Store:     getEnv("TOKEN_STORE", TokenStoreFile),
			Profile:   getEnv("PROFILE", "default"),
			TokenFile: getEnv("TOKEN_FILE", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Server: ServerConfig{
			Port:           getEnv("SHELL_PORT", "8080"),
			ConfigTemplate: getEnv("CONFIG_TEMPLATE", ""),
		},
		Auth: AuthConfig{
			ClientSecret: getEnv("AUTH0_CLIENT_SECRET", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "production"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "dev"),
		},
	}

	if profilePath != "" {
		if err := cfg.overlay(profilePath); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// overlay copies every non-empty value from the YAML file onto c.
func (c *Config) overlay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	set(&c.API.BaseURL, file.API.BaseURL)
	set(&c.API.ConfigURL, file.API.ConfigURL)
	set(&c.API.RolesNamespace, file.API.RolesNamespace)
	if file.API.RateLimit != 0 {
		c.API.RateLimit = file.API.RateLimit
	}
	if file.API.RateBurst != 0 {
		c.API.RateBurst = file.API.RateBurst
	}
	set(&c.Session.Store, file.Session.Store)
	set(&c.Session.Profile, file.Session.Profile)
	set(&c.Session.TokenFile, file.Session.TokenFile)
	set(&c.Redis.Addr, file.Redis.Addr)
	set(&c.Redis.Password, file.Redis.Password)
	if file.Redis.DB != 0 {
		c.Redis.DB = file.Redis.DB
	}
	set(&c.Server.Port, file.Server.Port)
	set(&c.Server.ConfigTemplate, file.Server.ConfigTemplate)
	set(&c.Auth.ClientSecret, file.Auth.ClientSecret)
	set(&c.App.Environment, file.App.Environment)
	set(&c.App.LogLevel, file.App.LogLevel)
	set(&c.App.Version, file.App.Version)
	return nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	switch c.Session.Store {
	case TokenStoreFile:
	case TokenStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when TOKEN_STORE=redis")
		}
	default:
		return fmt.Errorf("TOKEN_STORE must be %q or %q, got %q", TokenStoreFile, TokenStoreRedis, c.Session.Store)
	}

	if c.API.RateLimit < 0 || c.API.RateBurst < 1 {
		return fmt.Errorf("API_RATE_LIMIT must be >= 0 and API_RATE_BURST >= 1")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SHELL_PORT is required")
	}

	return nil
}

func set(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
