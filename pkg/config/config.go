package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/loadbroker/backend/pkg/apperrors"
)

type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	FMCSA     FMCSAConfig
	Loads     LoadsConfig
	Events    EventsConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type AuthConfig struct {
	APIKey string
}

type FMCSAConfig struct {
	BaseURL     string
	WebKey      string
	TimeoutSec  int
	MaxAttempts int
}

type LoadsConfig struct {
	Path string
}

type EventsConfig struct {
	OffersPath    string
	SummariesPath string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

type RateLimitConfig struct {
	MaxRequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/loadbroker")

	viper.SetEnvPrefix("LOADBROKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate reports startup-fatal configuration faults. Missing secrets are
// surfaced once here, never per-request.
func (c *Config) Validate() error {
	if c.Auth.APIKey == "" {
		return apperrors.Config("auth.apiKey is required")
	}
	if c.FMCSA.WebKey == "" {
		return apperrors.Config("fmcsa.webKey is required")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("auth.apiKey", "")

	viper.SetDefault("fmcsa.baseURL", "https://mobile.fmcsa.dot.gov/qc/services")
	viper.SetDefault("fmcsa.webKey", "")
	viper.SetDefault("fmcsa.timeoutSec", 6)
	viper.SetDefault("fmcsa.maxAttempts", 3)

	viper.SetDefault("loads.path", "./data/loads.json")

	viper.SetDefault("events.offersPath", "./data/offers.log.jsonl")
	viper.SetDefault("events.summariesPath", "./data/call_summaries.jsonl")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttlSec", 900)

	viper.SetDefault("ratelimit.maxRequestsPerMinute", 120)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
