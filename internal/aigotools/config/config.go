// Package config loads the aigotools CLI configuration from flags,
// environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/leofalp/aigotools/providers/tool/xapi"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "AIGOTOOLS"

const (
	DefaultLogBackend = "slog"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "compact"
	DefaultTimeout    = 2 * time.Minute
	DefaultRetries    = 2
)

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Retries int           `mapstructure:"retries" validate:"gte=0,lte=10"`

	Brave   APIKeyConfig     `mapstructure:"brave"`
	Exa     APIKeyConfig     `mapstructure:"exa"`
	YouTube APIKeyConfig     `mapstructure:"youtube"`
	Google  GoogleConfig     `mapstructure:"google"`
	X       xapi.Credentials `mapstructure:"x"`
}

type LogConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=slog zerolog"`
	Level   string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format  string `mapstructure:"format" validate:"oneof=compact json console"`
}

type APIKeyConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// GoogleConfig points at an OAuth client secret file and the token file
// produced by a previous consent flow. Both are needed for Calendar.
type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file" validate:"required_with=TokenFile"`
	TokenFile       string `mapstructure:"token_file" validate:"required_with=CredentialsFile"`
}

// Enabled reports whether Calendar credentials are configured.
func (g GoogleConfig) Enabled() bool { return g.CredentialsFile != "" && g.TokenFile != "" }

// vendorEnv lists the provider variables read besides the prefixed ones.
var vendorEnv = map[string][]string{
	"brave.api_key":           {"BRAVE_SEARCH_API_KEY"},
	"exa.api_key":             {"EXA_API_KEY"},
	"youtube.api_key":         {"YOUTUBE_API_KEY"},
	"google.credentials_file": {"GOOGLE_CREDENTIALS_FILE"},
	"google.token_file":       {"GOOGLE_TOKEN_FILE"},
	"x.consumer_key":          {"X_CONSUMER_KEY"},
	"x.consumer_secret":       {"X_CONSUMER_SECRET"},
	"x.access_token":          {"X_ACCESS_TOKEN"},
	"x.access_token_secret":   {"X_ACCESS_TOKEN_SECRET"},
}

// SetDefaults registers every key so AutomaticEnv and Unmarshal see them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.backend", DefaultLogBackend)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("retries", DefaultRetries)
	for key := range vendorEnv {
		v.SetDefault(key, "")
	}
}

// Load reads the configuration held by v. When path is set the file must
// exist; flags should already be bound to v.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range vendorEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks enum fields and paired settings.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation error: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("config validation error: %s", strings.Join(msgs, "; "))
}
