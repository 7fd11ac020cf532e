// Package config loads the service configuration.
//
// Values are read from the embedded defaults, an optional configuration file
// and the environment, in that order. Environment variables use the LEDGER_
// prefix with dots replaced by underscores, e.g. LEDGER_AUTH_JWT_SECRET.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

//go:embed default.yaml
var defaults []byte

type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Auth     Auth     `mapstructure:"auth"`
	Budget   Budget   `mapstructure:"budget"`
	AMQP     AMQP     `mapstructure:"amqp"`
	Mail     Mail     `mapstructure:"mail"`
	Log      Log      `mapstructure:"log"`
}

type Server struct {
	Port             string `mapstructure:"port"`
	APIURL           string `mapstructure:"api_url"`
	GinMode          string `mapstructure:"gin_mode"`
	CORSAllowOrigins string `mapstructure:"cors_allow_origins"`
	EnablePprof      bool   `mapstructure:"enable_pprof"`
}

type Database struct {
	Path string `mapstructure:"path"`
}

type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type Budget struct {
	Timezone string `mapstructure:"timezone"`
}

// AMQP configures forwarding of change events. Forwarding is disabled when
// the URL is empty.
type AMQP struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type Mail struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type Log struct {
	Format string `mapstructure:"format"`
}

var ErrJWTSecretMissing = errors.New("auth.jwt_secret must be set")

// Load reads the configuration. path is an optional configuration file. If it
// is empty, config.yaml is looked up in the working directory and in ./config.
//
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, fmt.Errorf("reading default configuration: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading configuration file %s: %w", path, err)
		}
	} else {
		external := viper.New()
		external.SetConfigName("config")
		external.SetConfigType("yaml")
		external.AddConfigPath(".")
		external.AddConfigPath("./config")

		if err := external.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(external.AllSettings()); err != nil {
				return Config{}, fmt.Errorf("merging configuration file %s: %w", external.ConfigFileUsed(), err)
			}
			log.Debug().Str("file", external.ConfigFileUsed()).Msg("loaded configuration file")
		}
	}

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing configuration: %w", err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrJWTSecretMissing
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if _, err := c.URL(); err != nil {
		return err
	}

	return nil
}

// Location returns the timezone that budgets are evaluated in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Budget.Timezone)
	if err != nil {
		return nil, fmt.Errorf("budget.timezone: %w", err)
	}

	return loc, nil
}

// URL returns the public URL of the API.
func (c Config) URL() (*url.URL, error) {
	u, err := url.Parse(c.Server.APIURL)
	if err != nil {
		return nil, fmt.Errorf("server.api_url: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server.api_url must be an absolute URL, got %q", c.Server.APIURL)
	}

	return u, nil
}

// AllowOrigins returns the origins allowed for CORS requests.
func (c Config) AllowOrigins() []string {
	return strings.Fields(c.Server.CORSAllowOrigins)
}
