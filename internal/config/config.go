// Package config loads application settings from the environment and an
// optional config file.
package config

import "time"

// Config holds application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Security SecurityConfig `mapstructure:"security"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

// ServerConfig covers the HTTP listener and logging
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn error fatal"`
	LogPretty       bool          `mapstructure:"log_pretty"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig selects the SQL backend holding the topic catalog
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"oneof=sqlite postgres mysql"`
	Path string `mapstructure:"path" validate:"required_if=Type sqlite"`
	URL  string `mapstructure:"url" validate:"required_unless=Type sqlite"`
}

// QuizConfig tunes quiz sessions and the topic selection page
type QuizConfig struct {
	CorrectDelay   time.Duration `mapstructure:"correct_delay" validate:"gt=0"`
	IncorrectDelay time.Duration `mapstructure:"incorrect_delay" validate:"gt=0"`
	PageSize       int           `mapstructure:"page_size" validate:"gt=0"`
	// MaxQuestions caps questions per session; zero means no cap
	MaxQuestions int `mapstructure:"max_questions" validate:"gte=0"`
}

// SecurityConfig covers CSRF and answer-submission throttling
type SecurityConfig struct {
	CSRFSecret   string        `mapstructure:"csrf_secret"`
	SubmitRate   int           `mapstructure:"submit_rate" validate:"gt=0"`
	SubmitWindow time.Duration `mapstructure:"submit_window" validate:"gt=0"`
	// GeneratedSecret is set when no secret was configured and one was generated
	GeneratedSecret bool `mapstructure:"-"`
}

// CatalogConfig chooses where topics are read from
type CatalogConfig struct {
	Source string `mapstructure:"source" validate:"oneof=builtin database"`
	// Seed fills an empty database catalog with the built-in topics
	Seed bool `mapstructure:"seed"`
}
