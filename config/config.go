// Package config loads the connection settings for the host platform.
//
// Values are read, in increasing precedence, from defaults, an optional
// config file and environment variables. The environment variable names are
// the ones used by the host's own tooling (CMEM_BASE_URI, OAUTH_CLIENT_ID,
// ...), so a plugin process inherits its connection from the workflow
// runner without extra setup.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Grant types understood by the host client.
const (
	GrantClientCredentials = "client_credentials"
	GrantPrefetchedToken   = "prefetched_token"
)

// Config is the connection configuration of the host platform.
type Config struct {
	BaseURI      string        `mapstructure:"base_uri" validate:"required,url"`
	DIEndpoint   string        `mapstructure:"di_api_endpoint" validate:"omitempty,url"`
	DPEndpoint   string        `mapstructure:"dp_api_endpoint" validate:"omitempty,url"`
	GrantType    string        `mapstructure:"oauth_grant_type" validate:"oneof=client_credentials prefetched_token"`
	ClientID     string        `mapstructure:"oauth_client_id" validate:"required_if=GrantType client_credentials"`
	ClientSecret string        `mapstructure:"oauth_client_secret" validate:"required_if=GrantType client_credentials"`
	AccessToken  string        `mapstructure:"oauth_access_token" validate:"required_if=GrantType prefetched_token"`
	TokenURI     string        `mapstructure:"oauth_token_uri" validate:"omitempty,url"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	SSLVerify    bool          `mapstructure:"ssl_verify"`
	Log          LogConfig     `mapstructure:"log"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// envBindings maps config keys to the environment variables of the host
// tooling.
var envBindings = map[string]string{
	"base_uri":            "CMEM_BASE_URI",
	"di_api_endpoint":     "DI_API_ENDPOINT",
	"dp_api_endpoint":     "DP_API_ENDPOINT",
	"oauth_grant_type":    "OAUTH_GRANT_TYPE",
	"oauth_client_id":     "OAUTH_CLIENT_ID",
	"oauth_client_secret": "OAUTH_CLIENT_SECRET",
	"oauth_access_token":  "OAUTH_ACCESS_TOKEN",
	"oauth_token_uri":     "OAUTH_TOKEN_URI",
	"timeout":             "CMEM_TIMEOUT",
	"ssl_verify":          "SSL_VERIFY",
	"log.level":           "CMEM_LOG_LEVEL",
	"log.json":            "CMEM_LOG_JSON",
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("oauth_grant_type", GrantClientCredentials)
	v.SetDefault("oauth_client_id", "cmem-service-account")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("ssl_verify", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// BindEnv binds every config key to its environment variable.
func BindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return errors.WithMessagef(err, "failed to bind %s", env)
		}
	}
	return nil
}

// New returns a viper instance with defaults and environment bindings.
// configFile is optional.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithMessagef(err, "failed to read config file %s", configFile)
		}
	}
	return v, nil
}

// Load reads the configuration from configFile (optional) and the
// environment, applies derived defaults and validates the result.
func Load(configFile string) (*Config, error) {
	v, err := New(configFile)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper loads the configuration from a prepared viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WithMessage(err, "failed to unmarshal config")
	}
	cfg.applyDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDerived() {
	base := strings.TrimRight(c.BaseURI, "/")
	if c.DIEndpoint == "" && base != "" {
		c.DIEndpoint = base + "/dataintegration"
	}
	if c.DPEndpoint == "" && base != "" {
		c.DPEndpoint = base + "/dataplatform"
	}
	if c.TokenURI == "" && base != "" {
		c.TokenURI = base + "/auth/realms/cmem/protocol/openid-connect/token"
	}
}

// Validate checks the struct constraints.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
		}
		return errors.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
	}
	return errors.WithMessage(err, "invalid configuration")
}
