package indexer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/relay/pkg/rmv"
)

type fakeCluster struct {
	mutex sync.Mutex

	created   []string
	documents []string
	deleted   []string

	existing  []string
	failItems bool
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		items := []map[string]any{}
		scanner := bufio.NewScanner(r.Body)
		for scanner.Scan() {
			var action map[string]map[string]any
			json.Unmarshal(scanner.Bytes(), &action)
			scanner.Scan()

			status := 201
			if f.failItems {
				status = 400
			}
			f.documents = append(f.documents, fmt.Sprint(action["index"]["_id"]))
			items = append(items, map[string]any{"index": map[string]any{"_id": action["index"]["_id"], "status": status}})
		}
		json.NewEncoder(w).Encode(map[string]any{"took": 1, "errors": f.failItems, "items": items})
	case strings.HasPrefix(r.URL.Path, "/_cat/indices"):
		indexes := []map[string]string{}
		for _, index := range append(f.existing, f.created...) {
			indexes = append(indexes, map[string]string{"index": index})
		}
		json.NewEncoder(w).Encode(indexes)
	case r.Method == http.MethodPut:
		f.created = append(f.created, strings.TrimPrefix(r.URL.Path, "/"))
		w.Write([]byte(`{"acknowledged": true}`))
	case r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/"))
		w.Write([]byte(`{"acknowledged": true}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newIndexer(t *testing.T, cluster *fakeCluster) *StationIndexer {
	server := httptest.NewServer(cluster)
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	stationIndexer := NewStationIndexer(client)
	stationIndexer.Now = func() time.Time { return time.Unix(1700000000, 0) }

	return stationIndexer
}

func directory() *rmv.Directory {
	return rmv.NewDirectory([]*rmv.Station{
		{HafasID: "3000010", NameFahrPlan: "Frankfurt (Main) Hauptbahnhof"},
		{HafasID: "3004734", NameFahrPlan: "Wiesbaden Hauptbahnhof"},
	})
}

func TestIndexStations(t *testing.T) {
	cluster := &fakeCluster{existing: []string{"relay-stations-1600000000"}}
	stationIndexer := newIndexer(t, cluster)

	result, err := stationIndexer.Index(t.Context(), directory())
	require.NoError(t, err)

	assert.Equal(t, "relay-stations-1700000000", result.Index)
	assert.Equal(t, uint64(2), result.Indexed)
	assert.Equal(t, []string{"relay-stations-1600000000"}, result.Deleted)

	assert.Equal(t, []string{"relay-stations-1700000000"}, cluster.created)
	assert.ElementsMatch(t, []string{"3000010", "3004734"}, cluster.documents)
	assert.Equal(t, []string{"relay-stations-1600000000"}, cluster.deleted)
}

func TestIndexStationsKeepsOldIndexesOnFailure(t *testing.T) {
	cluster := &fakeCluster{existing: []string{"relay-stations-1600000000"}, failItems: true}
	stationIndexer := newIndexer(t, cluster)

	result, err := stationIndexer.Index(t.Context(), directory())
	assert.Error(t, err)
	assert.Equal(t, uint64(2), result.Failed)
	assert.Equal(t, uint64(0), result.Indexed)
	assert.Empty(t, cluster.deleted)
}
