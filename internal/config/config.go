package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Booking  BookingConfig  `mapstructure:"booking"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig holds the booking REST API configuration
type APIConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	UserAgent            string `mapstructure:"user_agent"`
	Paths                Paths  `mapstructure:"paths"`
}

// Paths are relative to BaseURL. "{id}" is replaced with the booking id.
type Paths struct {
	Catalog          string `mapstructure:"catalog"`
	Bookings         string `mapstructure:"bookings"`
	MyBookings       string `mapstructure:"my_bookings"`
	Booking          string `mapstructure:"booking"`
	ProviderBookings string `mapstructure:"provider_bookings"`
	Accept           string `mapstructure:"accept"`
	Reject           string `mapstructure:"reject"`
	Login            string `mapstructure:"login"`
}

// BookingConfig controls how selections become request payloads
type BookingConfig struct {
	TimeZone       string `mapstructure:"timezone"`
	NotesMaxLength int    `mapstructure:"notes_max_length"`
}

// AuthConfig selects where the bearer token comes from
type AuthConfig struct {
	Token     string `mapstructure:"token"`
	Profile   string `mapstructure:"profile"`
	TokenFile string `mapstructure:"token_file"` // used when redis is disabled
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	StreamPrefix  string `mapstructure:"stream_prefix"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	TokenPrefix   string `mapstructure:"token_prefix"`
}

// DatabaseConfig holds the booking journal database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from config.yaml in the current directory, or from
// the file named by BOOKING_CONFIG, with environment variable overrides.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("BOOKING_CONFIG"))
}

// LoadFile loads configuration from path. An empty path searches for
// config.yaml in the current directory; a missing file there is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("booking")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url must not be empty")
	}
	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", 30)
	v.SetDefault("api.max_requests_per_second", 10)
	v.SetDefault("api.user_agent", "sanskaar-booking/1.0")
	v.SetDefault("api.paths.catalog", "/categories-with-services")
	v.SetDefault("api.paths.bookings", "/bookings")
	v.SetDefault("api.paths.my_bookings", "/bookings/mine")
	v.SetDefault("api.paths.booking", "/bookings/{id}")
	v.SetDefault("api.paths.provider_bookings", "/provider/bookings")
	v.SetDefault("api.paths.accept", "/bookings/{id}/accept")
	v.SetDefault("api.paths.reject", "/bookings/{id}/reject")
	v.SetDefault("api.paths.login", "/auth/login")

	v.SetDefault("booking.timezone", "UTC")
	v.SetDefault("booking.notes_max_length", 500)

	v.SetDefault("auth.token", "")
	v.SetDefault("auth.profile", "default")
	v.SetDefault("auth.token_file", defaultTokenFile())

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.stream_prefix", "booking:stream:")
	v.SetDefault("redis.consumer_group", "booking_console")
	v.SetDefault("redis.token_prefix", "booking:auth:")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "booking")
	v.SetDefault("database.user", "booking_user")
	v.SetDefault("database.password", "booking_pass")

	v.SetDefault("log.level", "info")
}

// defaultTokenFile is tokens.yaml in the user's config directory, or in the
// working directory when there is none.
func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".booking-tokens.yaml"
	}
	return filepath.Join(dir, "sanskaar-booking", "tokens.yaml")
}
