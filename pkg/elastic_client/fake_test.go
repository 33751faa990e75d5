package elastic_client

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func fakeCluster(t *testing.T, status int) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"version": {"number": "8.19.0"}, "tagline": "You Know, for Search"}`))
	}))
	t.Cleanup(server.Close)

	return server
}
