package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config contains the application settings read from the config file
type Config struct {
	AppTitle      string
	Addr          string
	BaseURL       string
	BaseInterval  time.Duration
	RefreshPeriod time.Duration
	RenewalPeriod time.Duration
}

// DBConfig contains the settings needed to connect to the database
type DBConfig struct {
	DSN string
}

// New creates a config from the file with the given name in the given
// directory, applying defaults for any missing settings
func New(path, name string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.AddConfigPath(path)

	v.SetDefault("app_title", "Gazette")
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("base_interval", "15m")
	v.SetDefault("refresh_period", "5m")
	v.SetDefault("renewal_period", "12h")

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	baseInterval, err := time.ParseDuration(v.GetString("base_interval"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse base interval")
	}

	refreshPeriod, err := time.ParseDuration(v.GetString("refresh_period"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse refresh period")
	}

	renewalPeriod, err := time.ParseDuration(v.GetString("renewal_period"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse renewal period")
	}

	return &Config{
		AppTitle:      v.GetString("app_title"),
		Addr:          v.GetString("addr"),
		BaseURL:       v.GetString("base_url"),
		BaseInterval:  baseInterval,
		RefreshPeriod: refreshPeriod,
		RenewalPeriod: renewalPeriod,
	}, nil
}
