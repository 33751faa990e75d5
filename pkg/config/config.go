package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/relay/pkg/util"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIRoute                = "/api"
	defaultStationsFile            = "data/rmv/stations.csv"
	defaultRefreshTokenFile        = "refresh_token"
	defaultRMVEndpoint             = "https://www.rmv.de/hapi"
	defaultSpotifyAPIEndpoint      = "https://api.spotify.com/v1"
	defaultSpotifyAccountsEndpoint = "https://accounts.spotify.com"
	defaultMongoDatabase           = "relay"
)

type Config struct {
	ServerAddress       string `yaml:"server_address" env:"SERVER_ADDRESS" validate:"required,url"`
	RMVAccessID         string `yaml:"rmv_access_id" env:"RMV_ACCESS_ID" validate:"required"`
	SpotifyClientID     string `yaml:"spotify_client_id" env:"SPOTIFY_CLIENT_ID" validate:"required"`
	SpotifyClientSecret string `yaml:"spotify_client_secret" env:"SPOTIFY_CLIENT_SECRET" validate:"required"`

	APIRoute         string `yaml:"api_route" env:"RELAY_API_ROUTE" validate:"required,startswith=/"`
	StationsFile     string `yaml:"stations_file" env:"RELAY_STATIONS_FILE" validate:"required"`
	RefreshTokenFile string `yaml:"refresh_token_file" env:"RELAY_REFRESH_TOKEN_FILE" validate:"required"`

	RMVEndpoint             string `yaml:"rmv_endpoint" env:"RELAY_RMV_ENDPOINT" validate:"required,url"`
	SpotifyAPIEndpoint      string `yaml:"spotify_api_endpoint" env:"RELAY_SPOTIFY_API_ENDPOINT" validate:"required,url"`
	SpotifyAccountsEndpoint string `yaml:"spotify_accounts_endpoint" env:"RELAY_SPOTIFY_ACCOUNTS_ENDPOINT" validate:"required,url"`

	Redis         RedisConfig         `yaml:"redis"`
	MongoDB       MongoDBConfig       `yaml:"mongodb"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
}

type RedisConfig struct {
	Address  string `yaml:"address" env:"RELAY_REDIS_ADDRESS"`
	Password string `yaml:"password" env:"RELAY_REDIS_PASSWORD"`
	Database int    `yaml:"database" env:"RELAY_REDIS_DATABASE" validate:"gte=0"`
}

type MongoDBConfig struct {
	Connection string `yaml:"connection" env:"RELAY_MONGODB_CONNECTION"`
	Database   string `yaml:"database" env:"RELAY_MONGODB_DATABASE"`
}

type ElasticsearchConfig struct {
	Address  string `yaml:"address" env:"RELAY_ELASTICSEARCH_ADDRESS" validate:"omitempty,url"`
	Username string `yaml:"username" env:"RELAY_ELASTICSEARCH_USERNAME"`
	Password string `yaml:"password" env:"RELAY_ELASTICSEARCH_PASSWORD"`
}

// MissingError lists every configuration value that failed validation
type MissingError struct {
	Messages []string
}

func (e *MissingError) Error() string {
	return strings.Join(e.Messages, "\n")
}

func defaults() *Config {
	return &Config{
		APIRoute:                defaultAPIRoute,
		StationsFile:            defaultStationsFile,
		RefreshTokenFile:        defaultRefreshTokenFile,
		RMVEndpoint:             defaultRMVEndpoint,
		SpotifyAPIEndpoint:      defaultSpotifyAPIEndpoint,
		SpotifyAccountsEndpoint: defaultSpotifyAccountsEndpoint,
		MongoDB: MongoDBConfig{
			Database: defaultMongoDatabase,
		},
	}
}

// Load builds the configuration from the defaults, the optional yaml file and then the environment
func Load(path string) (*Config, error) {
	return LoadWithEnvironment(path, util.GetEnvironmentVariables())
}

func LoadWithEnvironment(path string, env map[string]string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnvironment(reflect.ValueOf(cfg).Elem(), env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.APIRoute = strings.TrimSuffix(cfg.APIRoute, "/")
	cfg.ServerAddress = strings.TrimSuffix(cfg.ServerAddress, "/")

	return cfg, nil
}

func applyEnvironment(value reflect.Value, env map[string]string) error {
	valueType := value.Type()

	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		fieldType := valueType.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnvironment(field, env); err != nil {
				return err
			}
			continue
		}

		key := fieldType.Tag.Get("env")
		if key == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(util.EnvironmentValue(env, key, field.String()))
		case reflect.Int:
			raw := util.EnvironmentValue(env, key, "")
			if raw == "" {
				continue
			}

			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%s must be a number: %w", key, err)
			}
			field.SetInt(int64(n))
		}
	}

	return nil
}

func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("env")
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	missing := &MissingError{}
	for _, fieldError := range validationErrors {
		if fieldError.Tag() == "required" {
			missing.Messages = append(missing.Messages, fmt.Sprintf("Environment variable %s is not set", fieldError.Field()))
		} else {
			missing.Messages = append(missing.Messages, fmt.Sprintf("Environment variable %s is invalid (%s)", fieldError.Field(), fieldError.Tag()))
		}
	}

	return missing
}

// SpotifyCallbackURL is the redirect registered with Spotify for the authorization code flow
func (c *Config) SpotifyCallbackURL() string {
	return c.ServerAddress + c.APIRoute + "/spotify/v1/auth/callback"
}
