package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingDatabaseURL is returned when a networked database is selected without a URL.
var ErrMissingDatabaseURL = errors.New("database.url is required for postgres and mysql")

// Config holds application configuration
type Config struct {
	Env            string           `mapstructure:"env"`
	ServerPort     string           `mapstructure:"-"`
	DatabaseType   string           `mapstructure:"-"`
	DatabasePath   string           `mapstructure:"-"`
	DatabaseURL    string           `mapstructure:"-"`
	MigrationsPath string           `mapstructure:"migrations_path"`
	Upload         UploadConfig     `mapstructure:"upload"`
	Vocabulary     VocabularyConfig `mapstructure:"vocabulary"`
	Practice       PracticeConfig   `mapstructure:"practice"`
	AWS            AWSConfig        `mapstructure:"aws"`
	S3             S3Config         `mapstructure:"s3"`
	SES            SESConfig        `mapstructure:"ses"`
	Telegram       TelegramConfig   `mapstructure:"telegram"`
	Contact        ContactConfig    `mapstructure:"contact"`
}

// UploadConfig limits what may be pushed to object storage.
type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// VocabularyConfig controls the in-memory vocabulary cache.
type VocabularyConfig struct {
	RefreshSchedule string `mapstructure:"refresh_schedule"`
}

// PracticeConfig tunes the practice session timers.
type PracticeConfig struct {
	QuizAdvanceDelay   time.Duration `mapstructure:"quiz_advance_delay"`
	MatchFeedbackDelay time.Duration `mapstructure:"match_feedback_delay"`
	SessionIdleTTL     time.Duration `mapstructure:"session_idle_ttl"`
	SweepSchedule      string        `mapstructure:"sweep_schedule"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

type S3Config struct {
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type SESConfig struct {
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// ContactConfig controls the portfolio contact form.
type ContactConfig struct {
	Recipient       string        `mapstructure:"recipient"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
}

// Load reads configuration from an optional .env file, config/config.yaml and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("database.type", "DB_TYPE")
	_ = v.BindEnv("database.path", "DB_PATH")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("migrations_path", "MIGRATIONS_PATH")
	_ = v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("s3.bucket", "S3_BUCKET")
	_ = v.BindEnv("s3.public_base_url", "S3_PUBLIC_BASE_URL")
	_ = v.BindEnv("ses.from_email", "SES_FROM_EMAIL")
	_ = v.BindEnv("contact.recipient", "CONTACT_RECIPIENT")
	_ = v.BindEnv("aws.region", "AWS_REGION")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "./lingofolio.db")
	v.SetDefault("migrations_path", "./migrations")
	v.SetDefault("upload.max_size", 5*1024*1024) // 5MB
	v.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/webp", "application/pdf"})
	v.SetDefault("vocabulary.refresh_schedule", "@every 10m")
	v.SetDefault("practice.quiz_advance_delay", "1500ms")
	v.SetDefault("practice.match_feedback_delay", "800ms")
	v.SetDefault("practice.session_idle_ttl", "30m")
	v.SetDefault("practice.sweep_schedule", "@every 5m")
	v.SetDefault("aws.region", "eu-west-1")
	v.SetDefault("ses.from_name", "Portfolio")
	v.SetDefault("contact.rate_limit", 5)
	v.SetDefault("contact.rate_limit_window", "1h")
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.ServerPort = v.GetString("server.port")
	cfg.DatabaseType = strings.ToLower(v.GetString("database.type"))
	cfg.DatabasePath = v.GetString("database.path")
	cfg.DatabaseURL = v.GetString("database.url")

	switch cfg.DatabaseType {
	case "postgres", "postgresql", "mysql":
		if cfg.DatabaseURL == "" {
			return nil, ErrMissingDatabaseURL
		}
	}

	return &cfg, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
