package config

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/go-core-fx/config"
)

const defaultCheckboxAPIURL = "https://api.checkbox.ua/api/v1"

type Config struct {
	CheckboxAPIURL string        `koanf:"checkbox_api_url"`
	CashierPIN     string        `koanf:"checkbox_cashier_pin"`
	LicenseKey     string        `koanf:"checkbox_license_key"`
	CronSecret     string        `koanf:"cron_secret"`
	OrdersAPIURL   string        `koanf:"orders_api_url"`
	OrdersAPIKey   string        `koanf:"orders_api_key"`
	ListenAddr     string        `koanf:"listen_addr"`
	Timeout        time.Duration `koanf:"timeout"`
	LogFile        string        `koanf:"log_file"`
	Debug          bool          `koanf:"debug"`
}

func New() (Config, error) {
	cfg := Config{
		CheckboxAPIURL: defaultCheckboxAPIURL,
		ListenAddr:     ":8080",
		Timeout:        20 * time.Second,
		LogFile:        "./fiscalizer.log",
	}

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	// Upstream paths are joined with a leading slash.
	cfg.CheckboxAPIURL = strings.TrimRight(strings.TrimSpace(cfg.CheckboxAPIURL), "/")

	return cfg, nil
}

// HasCredentials reports whether both cashier secrets are present. Their
// absence is a per-request failure, not a startup failure, so either entry
// point can report the misconfiguration instead of crash-looping the app.
func (c Config) HasCredentials() bool {
	return strings.TrimSpace(c.CashierPIN) != "" && strings.TrimSpace(c.LicenseKey) != ""
}
