package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"qbsync/internal/infrastructure/quickbooks"
)

const (
	defaultLogLevel  = "info"
	defaultEnv       = "local"
	defaultConfigDir = ".qbsync"
)

type Config struct {
	Env        string `mapstructure:"app_env"`
	LogLevel   string `mapstructure:"log_level"`
	ConfigDir  string `mapstructure:"config_dir"`
	TokenPath  string `mapstructure:"token_path"`
	DataPath   string `mapstructure:"data_path"`
	QuickBooks quickbooks.Config
}

// MustLoad загружает конфигурацию клиента
func MustLoad(v *viper.Viper) *Config {
	cfg, err := Load(v)
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env, переменные окружения и уже прочитанный viper конфиг
func Load(v *viper.Viper) (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("QB_BASE_URL", quickbooks.SandboxBaseURL)
	v.SetDefault("QB_MINOR_VERSION", 75)
	v.SetDefault("QB_TIMEOUT_SECONDS", 30)
	v.SetDefault("QB_RATE_PER_MINUTE", 500)
	v.SetDefault("QB_BREAKER_FAILURES", 5)

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}

	tokenPath := v.GetString("TOKEN_PATH")
	if tokenPath == "" {
		tokenPath = filepath.Join(configDir, "token")
	}
	dataPath := v.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, "records.db")
	}

	config := &Config{
		Env:       v.GetString("APP_ENV"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		ConfigDir: configDir,
		TokenPath: tokenPath,
		DataPath:  dataPath,
		QuickBooks: quickbooks.Config{
			BaseURL:         v.GetString("QB_BASE_URL"),
			RealmID:         v.GetString("QB_REALM_ID"),
			AccessToken:     v.GetString("QB_ACCESS_TOKEN"),
			MinorVersion:    v.GetInt("QB_MINOR_VERSION"),
			Timeout:         time.Duration(v.GetInt("QB_TIMEOUT_SECONDS")) * time.Second,
			RatePerMinute:   v.GetInt("QB_RATE_PER_MINUTE"),
			BreakerFailures: v.GetUint32("QB_BREAKER_FAILURES"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("data_path не может быть пустым")
	}
	if c.TokenPath == "" {
		return fmt.Errorf("token_path не может быть пустым")
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
