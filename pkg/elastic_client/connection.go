package elastic_client

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/config"
)

var ErrNotConfigured = errors.New("elasticsearch address not configured")

// Connect builds a client that retries overloaded responses with exponential backoff and checks the cluster answers
func Connect(cfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	if cfg.Address == "" {
		return nil, ErrNotConfigured
	}

	retryBackoff := backoff.NewExponentialBackOff()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Address},
		Username:  cfg.Username,
		Password:  cfg.Password,

		RetryOnStatus: []int{502, 503, 504, 429},

		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},
		MaxRetries: 5,
	})
	if err != nil {
		return nil, err
	}

	response, err := es.Info()
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.IsError() {
		return nil, errors.New("elasticsearch info request failed: " + response.Status())
	}

	log.Info().Msgf("Elasticsearch client setup for %s", cfg.Address)

	return es, nil
}
