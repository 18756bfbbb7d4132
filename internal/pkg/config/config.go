package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	OTP   OTPConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMS   SMSConfig
}

type OTPConfig struct {
	Secret string        `env:"OTP_SECRET"`
	TTL    time.Duration `env:"OTP_TTL, default=10m"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string        `env:"MONGO_DB,      default=staff_ledger"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// SMSConfig selects the SMS transport. An empty AMQPURL logs messages
// instead of publishing them.
type SMSConfig struct {
	AMQPURL    string `env:"AMQP_URL"`
	Exchange   string `env:"SMS_EXCHANGE,    default=notifications"`
	RoutingKey string `env:"SMS_ROUTING_KEY, default=sms.otp"`
}

// IsDevelopment reports whether the service runs in a local development setup.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings that are only tolerable in development.
func (c *Config) Validate() error {
	if c.IsDevelopment() {
		return nil
	}
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.SMS.AMQPURL == "" {
		errs = append(errs, errors.New("AMQP_URL is required"))
	}
	return errors.Join(errs...)
}

// LoadWith reads configuration through l. OTP_SECRET falls back to
// JWT_SECRET, and development gets placeholder secrets.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-jwt-secret"
	}
	if cfg.OTP.Secret == "" {
		cfg.OTP.Secret = cfg.JWTSecret
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
