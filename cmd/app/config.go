package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	DBHost         string        `mapstructure:"POSTGRES_HOST"`
	DBPort         string        `mapstructure:"POSTGRES_PORT"`
	DBUser         string        `mapstructure:"POSTGRES_USER"`
	DBPassword     string        `mapstructure:"POSTGRES_PASSWORD"`
	DBName         string        `mapstructure:"POSTGRES_DB"`
	DBMaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxIdleTime  time.Duration `mapstructure:"DB_MAX_IDLE_TIME"`
	// MigrationsSource is applied on startup when set, e.g. file://migrations.
	MigrationsSource string `mapstructure:"MIGRATIONS_SOURCE"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	RateLimitEnabled bool          `mapstructure:"RATE_LIMIT_ENABLED"`
	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	RelayInterval    time.Duration `mapstructure:"RELAY_INTERVAL"`
	RelayBatchSize   int           `mapstructure:"RELAY_BATCH_SIZE"`
	RelayMaxAttempts int           `mapstructure:"RELAY_MAX_ATTEMPTS"`
	RelayRetryDelay  time.Duration `mapstructure:"RELAY_RETRY_DELAY"`
	RelayLease       time.Duration `mapstructure:"RELAY_LEASE"`
}

var configDefaults = map[string]any{
	"PORT":               ":8080",
	"ENVIRONMENT":        "development",
	"VERSION":            "1.0.0",
	"TLS_CERT_FILE":      "",
	"TLS_KEY_FILE":       "",
	"POSTGRES_HOST":      "localhost",
	"POSTGRES_PORT":      "5432",
	"POSTGRES_USER":      "postgres",
	"POSTGRES_PASSWORD":  "",
	"POSTGRES_DB":        "blogfeed",
	"DB_MAX_OPEN_CONNS":  25,
	"DB_MAX_IDLE_CONNS":  25,
	"DB_MAX_IDLE_TIME":   "15m",
	"MIGRATIONS_SOURCE":  "",
	"MAIL_HOST":          "localhost",
	"MAIL_PORT":          25,
	"MAIL_USER":          "",
	"MAIL_PASSWORD":      "",
	"MAIL_SENDER":        "Blogfeed <no-reply@blogfeed.local>",
	"RABBITMQ_HOST":      "localhost",
	"RABBITMQ_PORT":      "5672",
	"RABBITMQ_USER":      "guest",
	"RABBITMQ_PASSWORD":  "guest",
	"RATE_LIMIT_ENABLED": true,
	"RATE_LIMIT_RPS":     4,
	"RATE_LIMIT_BURST":   8,
	"REQUEST_TIMEOUT":    "10s",
	"RELAY_INTERVAL":     "2s",
	"RELAY_BATCH_SIZE":   50,
	"RELAY_MAX_ATTEMPTS": 5,
	"RELAY_RETRY_DELAY":  "5s",
	"RELAY_LEASE":        "1m",
}

// loadConfig reads path as a dotenv file when it exists. Environment variables
// override the file and the file overrides the defaults.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
