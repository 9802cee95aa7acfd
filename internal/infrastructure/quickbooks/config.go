package quickbooks

import (
	"fmt"
	"time"
)

const (
	SandboxBaseURL    = "https://sandbox-quickbooks.api.intuit.com"
	ProductionBaseURL = "https://quickbooks.api.intuit.com"

	defaultMinorVersion    = 75
	defaultTimeout         = 30 * time.Second
	defaultRatePerMinute   = 500
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
)

// Config настройки клиента QuickBooks Online
type Config struct {
	BaseURL         string        `mapstructure:"qb_base_url"`
	RealmID         string        `mapstructure:"qb_realm_id"`
	AccessToken     string        `mapstructure:"qb_access_token"`
	MinorVersion    int           `mapstructure:"qb_minor_version"`
	Timeout         time.Duration `mapstructure:"qb_timeout"`
	RatePerMinute   int           `mapstructure:"qb_rate_per_minute"`
	BreakerFailures uint32        `mapstructure:"qb_breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"qb_breaker_timeout"`
}

// withDefaults заполняет незаданные поля значениями по умолчанию
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = SandboxBaseURL
	}
	if c.MinorVersion <= 0 {
		c.MinorVersion = defaultMinorVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.RatePerMinute <= 0 {
		c.RatePerMinute = defaultRatePerMinute
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = defaultBreakerFailures
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = defaultBreakerTimeout
	}
	return c
}

// Validate проверяет обязательные поля
func (c Config) Validate() error {
	if c.RealmID == "" {
		return fmt.Errorf("qb_realm_id не может быть пустым")
	}
	return nil
}
