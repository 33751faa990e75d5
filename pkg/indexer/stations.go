package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/rmv"
)

const StationIndexPrefix = "relay-stations-"

const stationMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 1
	},
	"mappings": {
		"properties": {
			"hafasId": {"type": "keyword"},
			"rmvId": {"type": "keyword"},
			"dhId": {"type": "keyword"},
			"nameFahrPlan": {
				"type": "text",
				"fields": {
					"keyword": {"type": "keyword", "ignore_above": 256},
					"search_as_you_type": {"type": "search_as_you_type"}
				}
			},
			"hstName": {"type": "text"},
			"gemeindeName": {
				"type": "text",
				"fields": {
					"keyword": {"type": "keyword", "ignore_above": 256}
				}
			},
			"landKreis": {"type": "keyword"}
		}
	}
}`

// StationIndexer pushes the station directory into a fresh index and removes the previous ones
type StationIndexer struct {
	Client *elasticsearch.Client
	Now    func() time.Time

	FlushInterval time.Duration
}

type IndexResult struct {
	Index   string
	Indexed uint64
	Failed  uint64
	Deleted []string
}

func NewStationIndexer(client *elasticsearch.Client) *StationIndexer {
	return &StationIndexer{
		Client:        client,
		Now:           time.Now,
		FlushInterval: 15 * time.Second,
	}
}

func (s *StationIndexer) Index(ctx context.Context, directory *rmv.Directory) (*IndexResult, error) {
	indexName := fmt.Sprintf("%s%d", StationIndexPrefix, s.Now().Unix())

	if err := s.createIndex(ctx, indexName); err != nil {
		return nil, err
	}

	bulkIndexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        s.Client,
		Index:         indexName,
		FlushInterval: s.FlushInterval,
	})
	if err != nil {
		return nil, err
	}

	for _, station := range directory.All() {
		document, err := json.Marshal(station)
		if err != nil {
			return nil, err
		}

		err = bulkIndexer.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: station.HafasID,
			Body:       bytes.NewReader(document),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, response esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					log.Error().Err(err).Str("station", item.DocumentID).Msg("Failed to index station")
				} else {
					log.Error().Str("station", item.DocumentID).Str("reason", response.Error.Reason).Msg("Failed to index station")
				}
			},
		})
		if err != nil {
			return nil, err
		}
	}

	if err := bulkIndexer.Close(ctx); err != nil {
		return nil, err
	}

	stats := bulkIndexer.Stats()
	log.Info().Str("index", indexName).Uint64("indexed", stats.NumIndexed).Uint64("failed", stats.NumFailed).Msg("Indexed stations")

	result := &IndexResult{
		Index:   indexName,
		Indexed: stats.NumIndexed,
		Failed:  stats.NumFailed,
	}

	if stats.NumFailed > 0 {
		return result, fmt.Errorf("%d stations failed to index, keeping old indexes", stats.NumFailed)
	}

	result.Deleted, err = s.deleteOldIndexes(ctx, StationIndexPrefix+"*", indexName)
	if err != nil {
		return result, err
	}

	return result, nil
}

func (s *StationIndexer) createIndex(ctx context.Context, indexName string) error {
	request := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(stationMapping),
	}

	response, err := request.Do(ctx, s.Client)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.IsError() {
		body, _ := io.ReadAll(response.Body)
		return fmt.Errorf("failed to create index %s: %s %s", indexName, response.Status(), body)
	}

	return nil
}

func (s *StationIndexer) deleteOldIndexes(ctx context.Context, indexWildcard string, indexName string) ([]string, error) {
	catRequest := esapi.CatIndicesRequest{
		Index:  []string{indexWildcard},
		Format: "json",
	}

	response, err := catRequest.Do(ctx, s.Client)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.IsError() {
		return nil, errors.New("failed to list indexes: " + response.Status())
	}

	var indexes []struct {
		Index string `json:"index"`
	}
	if err := json.NewDecoder(response.Body).Decode(&indexes); err != nil {
		return nil, err
	}

	deleted := []string{}
	for _, index := range indexes {
		if index.Index == indexName {
			continue
		}

		deleteRequest := esapi.IndicesDeleteRequest{
			Index: []string{index.Index},
		}

		deleteResponse, err := deleteRequest.Do(ctx, s.Client)
		if err != nil {
			return deleted, err
		}
		deleteResponse.Body.Close()

		log.Info().Str("index", index.Index).Msg("Delete old index")
		deleted = append(deleted, index.Index)
	}

	return deleted, nil
}
