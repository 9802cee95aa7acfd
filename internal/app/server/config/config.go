package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"qbsync/internal/infrastructure/quickbooks"
)

const (
	envPath = "../../.env"

	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress = ":8080"
	defaultMigrations = "migrations/postgres"
)

type Config struct {
	Env        string
	DB         db
	Server     server
	Logger     logger
	QuickBooks quickbooks.Config
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
	APIToken   string `env:"API_TOKEN"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// MustLoad загружает конфигурацию сервера или завершает процесс
func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	return cfg
}

// Load читает конфигурацию из переменных окружения через viper
func Load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", defaultRunAddress)
	v.SetDefault("migrations_path", defaultMigrations)
	v.SetDefault("log_level", "info")
	v.SetDefault("qb_base_url", quickbooks.SandboxBaseURL)
	v.SetDefault("qb_minor_version", 75)
	v.SetDefault("qb_timeout_seconds", 30)
	v.SetDefault("qb_rate_per_minute", 500)
	v.SetDefault("qb_breaker_failures", 5)

	config := Config{
		Env: v.GetString("app_env"),
		DB: db{
			DatabaseURI: v.GetString("database_uri"),
			Migrations:  v.GetString("migrations_path"),
		},
		Server: server{
			RunAddress: v.GetString("run_address"),
			APIToken:   v.GetString("api_token"),
		},
		Logger: logger{LogLevel: v.GetString("log_level")},
		QuickBooks: quickbooks.Config{
			BaseURL:         v.GetString("qb_base_url"),
			RealmID:         v.GetString("qb_realm_id"),
			AccessToken:     v.GetString("qb_access_token"),
			MinorVersion:    v.GetInt("qb_minor_version"),
			Timeout:         time.Duration(v.GetInt("qb_timeout_seconds")) * time.Second,
			RatePerMinute:   v.GetInt("qb_rate_per_minute"),
			BreakerFailures: v.GetUint32("qb_breaker_failures"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.DB.DatabaseURI == "" {
		return fmt.Errorf("database_uri не может быть пустым")
	}
	if c.QuickBooks.RealmID == "" {
		return fmt.Errorf("qb_realm_id не может быть пустым")
	}
	if c.Env == EnvProd && c.Server.APIToken == "" {
		return fmt.Errorf("api_token обязателен в prod окружении")
	}
	if _, err := os.Stat(c.DB.Migrations); err != nil {
		return fmt.Errorf("migrations_path: %w", err)
	}
	return nil
}
