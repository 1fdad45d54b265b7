package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	// Chart codes the journal synthesizer posts invoices and payments
	// against.
	CashAccountCode    string `env:"CASH_ACCOUNT_CODE" envDefault:"1000"`
	ARAccountCode      string `env:"AR_ACCOUNT_CODE" envDefault:"1100"`
	APAccountCode      string `env:"AP_ACCOUNT_CODE" envDefault:"2100"`
	RevenueAccountCode string `env:"REVENUE_ACCOUNT_CODE" envDefault:"4000"`
	ExpenseAccountCode string `env:"EXPENSE_ACCOUNT_CODE" envDefault:"5000"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
