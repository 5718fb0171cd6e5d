package subgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hmrtn/gtc-api/internal/chain"
	"github.com/hmrtn/gtc-api/internal/domain"
	"github.com/hmrtn/gtc-api/internal/ingest"
)

var pageQueryPattern = regexp.MustCompile(`(\w+)\(first: (\d+), where: \{ id_gt: ("(?:[^"\\]|\\.)*") \}`)

// fakeSubgraph serves collections of id-bearing objects the way a graph
// node does: filtered by id_gt, ordered by id, capped by first.
type fakeSubgraph struct {
	mu          sync.Mutex
	collections map[string][]map[string]interface{}
	queries     []string
}

func newFakeSubgraph() *fakeSubgraph {
	return &fakeSubgraph{collections: make(map[string][]map[string]interface{})}
}

func (f *fakeSubgraph) add(collection string, items ...map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[collection] = append(f.collections[collection], items...)
	sort.Slice(f.collections[collection], func(i, j int) bool {
		return f.collections[collection][i]["id"].(string) < f.collections[collection][j]["id"].(string)
	})
}

func (f *fakeSubgraph) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, req.Query)

	m := pageQueryPattern.FindStringSubmatch(req.Query)
	if m == nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"unparseable query"}]}`))
		return
	}
	first, _ := strconv.Atoi(m[2])
	var after string
	_ = json.Unmarshal([]byte(m[3]), &after)

	page := []map[string]interface{}{}
	for _, item := range f.collections[m[1]] {
		if item["id"].(string) > after {
			page = append(page, item)
			if len(page) == first {
				break
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{m[1]: page},
	})
}

func (f *fakeSubgraph) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, zap.NewNop())
}

func TestCollection_Page_Programs(t *testing.T) {
	fake := newFakeSubgraph()
	for i := 1; i <= 3; i++ {
		fake.add("programs", map[string]interface{}{
			"id":        fmt.Sprintf("0x%02d", i),
			"createdAt": "1672531200",
			"updatedAt": "1672617600",
		})
	}
	client := newTestClient(t, fake)

	page, err := NewSources(client).Programs.Page(context.Background(), 2, "")
	require.NoError(t, err)

	require.Len(t, page, 2)
	assert.Equal(t, "0x01", page[0].ID)
	assert.Equal(t, "1672617600", page[0].UpdatedAt)
	assert.Nil(t, page[0].ChainID)

	page, err = NewSources(client).Programs.Page(context.Background(), 2, "0x02")
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "0x03", page[0].ID)
}

func TestCollection_Page_Votes(t *testing.T) {
	fake := newFakeSubgraph()
	fake.add("qfvotes",
		map[string]interface{}{
			"id": "0xv1", "createdAt": "1", "amount": "123456789012345678901234567890",
			"from": "0xfrom", "to": "0xto", "token": "0xtoken", "version": "0.1.0", "projectId": "0xp1",
		},
		map[string]interface{}{
			"id": "0xv2", "createdAt": "2", "amount": "5",
			"from": "0xfrom", "to": "0xto", "token": "0xtoken", "version": "0.1.0", "projectId": nil,
		})
	client := newTestClient(t, fake)

	votes, err := NewSources(client).Votes.Page(context.Background(), 1000, "")
	require.NoError(t, err)

	require.Len(t, votes, 2)
	assert.Equal(t, "123456789012345678901234567890", votes[0].Amount)
	require.NotNil(t, votes[0].ProjectID)
	assert.Equal(t, "0xp1", *votes[0].ProjectID)
	assert.Nil(t, votes[1].ProjectID)
}

func TestNewSources_Collections(t *testing.T) {
	fake := newFakeSubgraph()
	client := newTestClient(t, fake)
	sources := NewSources(client)

	_, err := sources.Projects.Page(context.Background(), 10, "")
	require.NoError(t, err)
	_, err = sources.Rounds.Page(context.Background(), 10, "")
	require.NoError(t, err)

	require.Equal(t, 2, fake.queryCount())
	assert.Contains(t, fake.queries[0], "roundProjects(first: 10")
	assert.Contains(t, fake.queries[1], "rounds(first: 10")
}

func TestFetchAll_AgainstSubgraph(t *testing.T) {
	fake := newFakeSubgraph()
	for i := 1; i <= 1003; i++ {
		fake.add("programs", map[string]interface{}{
			"id": fmt.Sprintf("p%04d", i), "createdAt": "1", "updatedAt": "1",
		})
	}
	client := newTestClient(t, fake)

	records, pages, err := ingest.FetchAll[domain.Program](context.Background(), NewSources(client).Programs, 1000)
	require.NoError(t, err)

	assert.Len(t, records, 1003)
	assert.Equal(t, 2, pages)
	assert.Equal(t, 2, fake.queryCount())
	assert.Contains(t, fake.queries[1], `id_gt: "p1000"`)
}

func TestClient_Query_GraphQLErrors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"indexing_error"}]}`))
	}))

	_, err := NewSources(client).Rounds.Page(context.Background(), 10, "")

	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, []string{"indexing_error"}, qerr.Messages)
	assert.Equal(t, http.StatusOK, qerr.StatusCode)
}

func TestClient_Query_HTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))

	_, err := NewSources(client).Rounds.Page(context.Background(), 10, "")

	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, http.StatusBadGateway, qerr.StatusCode)
}

func TestClient_Query_MissingData(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":null}`))
	}))

	_, err := NewSources(client).Votes.Page(context.Background(), 10, "")
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestClient_Query_MissingCollection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"somethingElse":[]}}`))
	}))

	_, err := NewSources(client).Votes.Page(context.Background(), 10, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"qfvotes" missing`)
}

func TestClient_Query_Malformed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))

	_, err := NewSources(client).Programs.Page(context.Background(), 10, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode subgraph response")
}

func TestClient_Query_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := NewClient(server.URL, time.Second, zap.NewNop())

	_, err := NewSources(client).Programs.Page(context.Background(), 10, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send subgraph query")
}

func TestBuildPageQuery_EscapesCursor(t *testing.T) {
	q := buildPageQuery("programs", recordFields, 1000, `a"b`)
	assert.Contains(t, q, `id_gt: "a\"b"`)
	assert.Contains(t, q, "programs(first: 1000")
	assert.Contains(t, q, "orderBy: id, orderDirection: asc")
}

func TestNewSourceFactory(t *testing.T) {
	fake := newFakeSubgraph()
	fake.add("rounds", map[string]interface{}{"id": "r1", "createdAt": "1", "updatedAt": "1"})
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	c, err := chain.Lookup("optimism_mainnet")
	require.NoError(t, err)

	sources := NewSourceFactory(time.Second, zap.NewNop())(chain.Target{Chain: c, Endpoint: server.URL})

	rounds, err := sources.Rounds.Page(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, "r1", rounds[0].ID)
}
