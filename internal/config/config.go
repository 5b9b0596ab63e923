package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Log   logConfig   `yaml:"log"`
	Http  httpConfig  `yaml:"http"`
	Mongo mongoConfig `yaml:"mongo"`
	Cors  corsConfig  `yaml:"cors"`
}

// Load loads the configuration following proper precedence: defaults → config file → .env → environment variables
func Load() error {
	configFile := os.Getenv("USERDOCS_CONFIG_FILE")
	if configFile == "" {
		configFile = "userdocs.yaml"
	}

	cfg, err := LoadFromFile(configFile)
	if err != nil {
		return err
	}

	// .env only fills variables the process environment does not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return err
	}

	_loaded = cfg
	return nil
}

// LoadDefault installs the built-in defaults without reading files or the environment.
func LoadDefault() {
	cfg := defaults()
	_loaded = &cfg
}

// LoadFromFile reads a YAML file and merges it over the defaults. A missing
// file yields the defaults unchanged.
func LoadFromFile(filename string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return &cfg, nil
}

// ApplyEnvOverrides overwrites any field whose environment variable is set.
func ApplyEnvOverrides(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
func defaults() Config {
	return Config{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host:              "0.0.0.0",
			Port:              8000,
			ExposeFaultDetail: true,
		},
		Mongo: mongoConfig{
			URI:                    "mongodb://localhost:27017",
			Database:               "userdocs",
			Collection:             "users",
			ConnectTimeout:         5 * time.Second,
			ServerSelectionTimeout: 5 * time.Second,
		},
		Cors: corsConfig{
			AllowOrigins: []string{"*"},
		},
	}
}

type logConfig struct {
	Level  string `yaml:"level" env:"USERDOCS_LOG_LEVEL"`
	Format string `yaml:"format" env:"USERDOCS_LOG_FORMAT"`
}

type httpConfig struct {
	Host string `yaml:"host" env:"USERDOCS_HTTP_HOST"`
	Port int    `yaml:"port" env:"USERDOCS_HTTP_PORT"`
	// ExposeFaultDetail controls whether raw store errors reach the client on 500s.
	ExposeFaultDetail bool `yaml:"expose_fault_detail" env:"USERDOCS_EXPOSE_FAULT_DETAIL"`
}

func (c httpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type mongoConfig struct {
	URI                    string        `yaml:"uri" env:"MONGO_DB_URL"`
	Database               string        `yaml:"database" env:"USERDOCS_MONGO_DATABASE"`
	Collection             string        `yaml:"collection" env:"USERDOCS_MONGO_COLLECTION"`
	ConnectTimeout         time.Duration `yaml:"connect_timeout" env:"USERDOCS_MONGO_CONNECT_TIMEOUT"`
	ServerSelectionTimeout time.Duration `yaml:"server_selection_timeout" env:"USERDOCS_MONGO_SERVER_SELECTION_TIMEOUT"`
}

type corsConfig struct {
	AllowOrigins []string `yaml:"allow_origins" env:"USERDOCS_CORS_ALLOW_ORIGINS" envSeparator:","`
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Http
}

func Mongo() mongoConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Mongo
}

func Cors() corsConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Cors
}
