package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable key
const EnvPrefix = "VOCABQUIZ"

// legacyEnv keeps the short variable names older deployments use
var legacyEnv = map[string]string{
	"server.port":          "PORT",
	"database.type":        "DATABASE_TYPE",
	"database.path":        "DB_PATH",
	"database.url":         "DATABASE_URL",
	"security.csrf_secret": "CSRF_SECRET",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_pretty", false)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "./vocabquiz.db")
	v.SetDefault("database.url", "")

	v.SetDefault("quiz.correct_delay", "800ms")
	v.SetDefault("quiz.incorrect_delay", "3000ms")
	v.SetDefault("quiz.page_size", 20)
	v.SetDefault("quiz.max_questions", 0)

	v.SetDefault("security.csrf_secret", "")
	v.SetDefault("security.submit_rate", 30)
	v.SetDefault("security.submit_window", "1m")

	v.SetDefault("catalog.source", "builtin")
	v.SetDefault("catalog.seed", true)
}

// Load reads configuration from VOCABQUIZ_* environment variables and an
// optional config.yaml in the working directory. Environment variables win.
func Load() (*Config, error) {
	return load(viper.New(), true)
}

// LoadFile reads configuration from an explicit file, still honouring the environment
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v, false)
}

func load(v *viper.Viper, searchPaths bool) (*Config, error) {
	setDefaults(v)

	if searchPaths {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !searchPaths || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Database.Type = normalizeDatabaseType(cfg.Database.Type)

	if cfg.Security.CSRFSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.Security.CSRFSecret = secret
		cfg.Security.GeneratedSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func normalizeDatabaseType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "postgresql", "postgres":
		return "postgres"
	case "sqlite3", "sqlite", "":
		return "sqlite"
	default:
		return strings.ToLower(t)
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate csrf secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
