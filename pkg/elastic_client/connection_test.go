package elastic_client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectWithoutAddress(t *testing.T) {
	t.Setenv("SMARTBUS_ELASTICSEARCH_ADDRESS", "")

	assert.NoError(t, Connect(false))
	assert.ErrorIs(t, Connect(true), ErrNotConfigured)
	assert.Nil(t, Client)

	// Nothing configured, indexing is a no-op
	assert.NoError(t, IndexDocument("smartbus-test", map[string]string{"a": "b"}))
}

func TestBulkIndexing(t *testing.T) {
	var mutex sync.Mutex
	var bulkBodies []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		if strings.HasSuffix(r.URL.Path, "/_bulk") {
			body, _ := io.ReadAll(r.Body)
			mutex.Lock()
			bulkBodies = append(bulkBodies, string(body))
			mutex.Unlock()

			json.NewEncoder(w).Encode(map[string]any{"took": 1, "errors": false, "items": []any{
				map[string]any{"index": map[string]any{"_index": "smartbus-test", "status": 201}},
			}})
			return
		}

		w.Write([]byte(`{"name":"test","cluster_name":"test","version":{"number":"8.19.0","build_flavor":"default"},"tagline":"You Know, for Search"}`))
	}))
	defer server.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	require.NoError(t, Use(es))
	t.Cleanup(func() {
		Client = nil
		bulkIndexer = nil
	})

	require.NoError(t, IndexDocument("smartbus-test", map[string]string{"optimisation": "fastest"}))
	WaitUntilQueueEmpty()

	mutex.Lock()
	defer mutex.Unlock()
	require.Len(t, bulkBodies, 1)
	assert.Contains(t, bulkBodies[0], `"_index":"smartbus-test"`)
	assert.Contains(t, bulkBodies[0], `"optimisation":"fastest"`)
}
