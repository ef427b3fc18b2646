package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingClientID is returned when no Fitbit client id is configured.
// The process cannot do anything useful without one.
var ErrMissingClientID = errors.New("fitbit client id is not configured (set FITBIT_CLIENT_ID)")

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Fitbit  FitbitConfig  `mapstructure:"fitbit"`
	Garmin  GarminConfig  `mapstructure:"garmin"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type FitbitConfig struct {
	ClientID    string        `mapstructure:"client_id"`
	RedirectURI string        `mapstructure:"redirect_uri"`
	BaseURL     string        `mapstructure:"base_url"`
	AuthURL     string        `mapstructure:"auth_url"`
	TokenURL    string        `mapstructure:"token_url"`
	Scope       string        `mapstructure:"scope"`
	TokenStore  string        `mapstructure:"token_store"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   int           `mapstructure:"rate_limit"` // requests per second
}

type GarminConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	TokenStore string        `mapstructure:"token_store"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// NotifyConfig holds outbound email settings. All three credentials must be
// present for notifications to be sent; otherwise notification is disabled.
type NotifyConfig struct {
	SMTPHost      string `mapstructure:"smtp_host"`
	SMTPPort      int    `mapstructure:"smtp_port"`
	SenderEmail   string `mapstructure:"sender_email"`
	ReceiverEmail string `mapstructure:"receiver_email"`
	AppPassword   string `mapstructure:"app_password"`
}

func (n *NotifyConfig) Enabled() bool {
	return n.SenderEmail != "" && n.ReceiverEmail != "" && n.AppPassword != ""
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func NewConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("app.name", "garmin-sync")
	viper.SetDefault("app.env", "production")

	viper.SetDefault("fitbit.base_url", "https://api.fitbit.com")
	viper.SetDefault("fitbit.auth_url", "https://www.fitbit.com/oauth2/authorize")
	viper.SetDefault("fitbit.token_url", "https://api.fitbit.com/oauth2/token")
	viper.SetDefault("fitbit.scope", "activity heartrate location nutrition profile settings sleep social weight")
	viper.SetDefault("fitbit.redirect_uri", "http://127.0.0.1:8080")
	viper.SetDefault("fitbit.token_store", "~/.fitbit_token/fitbit_oauth_token.json")
	viper.SetDefault("fitbit.timeout", 30)
	viper.SetDefault("fitbit.rate_limit", 5)

	viper.SetDefault("garmin.base_url", "https://connectapi.garmin.com")
	viper.SetDefault("garmin.token_store", "~/.garminconnect")
	viper.SetDefault("garmin.timeout", 30)

	viper.SetDefault("notify.smtp_host", "smtp.gmail.com")
	viper.SetDefault("notify.smtp_port", 465)

	viper.SetDefault("logging.level", "info")

	// Enable environment variable override
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Environment names kept from the cron deployment
	viper.BindEnv("fitbit.client_id", "FITBIT_CLIENT_ID", "GARMIN_CLIENT_ID")
	viper.BindEnv("fitbit.redirect_uri", "FITBIT_REDIRECT_URI", "GARMIN_REDIRECT_URI")
	viper.BindEnv("garmin.token_store", "GARMINTOKENSTORE")
	viper.BindEnv("notify.sender_email", "SENDER_EMAIL")
	viper.BindEnv("notify.receiver_email", "RECEIVER_EMAIL")
	viper.BindEnv("notify.app_password", "APP_PASSWORD")

	// Config file is optional; environment alone is enough
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Convert timeouts to durations
	cfg.Fitbit.Timeout = cfg.Fitbit.Timeout * time.Second
	cfg.Garmin.Timeout = cfg.Garmin.Timeout * time.Second

	cfg.Fitbit.TokenStore = ExpandHome(cfg.Fitbit.TokenStore)
	cfg.Garmin.TokenStore = ExpandHome(cfg.Garmin.TokenStore)
	cfg.Logging.File = ExpandHome(cfg.Logging.File)

	if cfg.Fitbit.ClientID == "" {
		return nil, ErrMissingClientID
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// ExpandHome resolves a leading "~" to the current user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
