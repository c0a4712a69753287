package main

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var errMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`

	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	MailHost      string `mapstructure:"MAIL_HOST"`
	MailPort      int    `mapstructure:"MAIL_PORT"`
	MailUser      string `mapstructure:"MAIL_USER"`
	MailPassword  string `mapstructure:"MAIL_PASSWORD"`
	MailSender    string `mapstructure:"MAIL_SENDER"`
	MailModerator string `mapstructure:"MAIL_MODERATOR"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`
}

var configKeys = []string{
	"PORT", "ENVIRONMENT", "VERSION", "TRUSTED_ORIGINS",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"JWT_SECRET", "JWT_TTL",
	"MAIL_HOST", "MAIL_PORT", "MAIL_USER", "MAIL_PASSWORD", "MAIL_SENDER", "MAIL_MODERATOR",
	"RABBITMQ_HOST", "RABBITMQ_PORT", "RABBITMQ_USER", "RABBITMQ_PASSWORD",
}

// loadConfig reads a dotenv file at path. Environment variables override the file,
// and a missing file is not an error when the environment provides the values.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("PORT", ":3003")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("RABBITMQ_PORT", "5672")
	v.SetDefault("JWT_TTL", time.Hour)

	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.TrustedOrigins = splitOrigins(config.TrustedOrigins)

	if !strings.HasPrefix(config.Port, ":") {
		config.Port = ":" + config.Port
	}

	if config.JWTSecret == "" {
		return nil, errMissingJWTSecret
	}

	return &config, nil
}

// splitOrigins accepts both a list and a single comma separated value.
func splitOrigins(values []string) []string {
	origins := []string{}
	for _, value := range values {
		for _, origin := range strings.Split(value, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}
