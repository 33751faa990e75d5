package app

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/config"
)

// Load reads the configuration and builds the App. Missing required configuration is fatal
func Load(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)

	var missing *config.MissingError
	if errors.As(err, &missing) {
		for _, message := range missing.Messages {
			log.Error().Msg(message)
		}
		log.Fatal().Msg("Configuration is incomplete")
	} else if err != nil {
		return nil, err
	}

	return New(cfg)
}
