package subgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hmrtn/gtc-api/internal/chain"
	"github.com/hmrtn/gtc-api/internal/domain"
	"github.com/hmrtn/gtc-api/internal/ingest"
)

const (
	recordFields = "id createdAt updatedAt"
	voteFields   = "id createdAt amount from to version token projectId"
)

// Collection pages through one entity collection of a subgraph
type Collection[T any] struct {
	client *Client
	name   string
	fields string
}

// NewCollection creates a page source for the named collection
func NewCollection[T any](client *Client, name string, fields ...string) *Collection[T] {
	return &Collection[T]{
		client: client,
		name:   name,
		fields: strings.Join(fields, " "),
	}
}

// Page implements ingest.PageSource
func (c *Collection[T]) Page(ctx context.Context, first int, after string) ([]T, error) {
	var data map[string]json.RawMessage
	if err := c.client.Query(ctx, buildPageQuery(c.name, c.fields, first, after), &data); err != nil {
		return nil, err
	}

	raw, ok := data[c.name]
	if !ok || string(raw) == "null" {
		return nil, fmt.Errorf("collection %q missing from response", c.name)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.name, err)
	}

	c.client.log.Debug("Fetched page",
		zap.String("collection", c.name),
		zap.String("after", after),
		zap.Int("count", len(records)))

	return records, nil
}

func buildPageQuery(collection, fields string, first int, after string) string {
	// a JSON string literal is a valid GraphQL string literal
	cursor, _ := json.Marshal(after)
	return fmt.Sprintf(
		"query { %s(first: %d, where: { id_gt: %s }, orderBy: id, orderDirection: asc) { %s } }",
		collection, first, cursor, fields)
}

// NewSources builds the page sources for every entity kind
func NewSources(client *Client) ingest.Sources {
	return ingest.Sources{
		Programs: NewCollection[domain.Program](client, "programs", recordFields),
		Rounds:   NewCollection[domain.Round](client, "rounds", recordFields),
		Projects: NewCollection[domain.Project](client, "roundProjects", recordFields),
		Votes:    NewCollection[domain.Vote](client, "qfvotes", voteFields),
	}
}

// NewSourceFactory returns a function that builds the page sources for a
// chain target, one client per call.
func NewSourceFactory(timeout time.Duration, log *zap.Logger) func(chain.Target) ingest.Sources {
	return func(target chain.Target) ingest.Sources {
		client := NewClient(target.Endpoint, timeout, log.With(zap.String("chain", string(target.Chain.Name))))
		return NewSources(client)
	}
}
