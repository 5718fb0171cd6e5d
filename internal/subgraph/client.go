package subgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrMissingData is returned when a response carries neither data nor errors
var ErrMissingData = errors.New("response contains no data")

// QueryError is returned for non-2xx responses and GraphQL level errors
type QueryError struct {
	StatusCode int
	Messages   []string
}

func (e *QueryError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("subgraph responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("subgraph query failed (status %d): %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

type request struct {
	Query string `json:"query"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Client posts GraphQL queries to a single subgraph endpoint
type Client struct {
	http     *resty.Client
	endpoint string
	log      *zap.Logger
}

// NewClient creates a new subgraph client. Requests are never retried.
func NewClient(endpoint string, timeout time.Duration, log *zap.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:     httpClient,
		endpoint: endpoint,
		log:      log,
	}
}

// Endpoint returns the URL queries are sent to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Query runs query and decodes the data object into out
func (c *Client) Query(ctx context.Context, query string, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request{Query: query}).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to send subgraph query: %w", err)
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		if resp.IsError() {
			return &QueryError{StatusCode: resp.StatusCode()}
		}
		return fmt.Errorf("failed to decode subgraph response: %w", err)
	}

	if resp.IsError() || len(body.Errors) > 0 {
		qerr := &QueryError{StatusCode: resp.StatusCode()}
		for _, e := range body.Errors {
			qerr.Messages = append(qerr.Messages, e.Message)
		}
		c.log.Warn("Subgraph query rejected",
			zap.String("endpoint", c.endpoint),
			zap.Int("status", resp.StatusCode()),
			zap.Strings("errors", qerr.Messages))
		return qerr
	}

	if len(body.Data) == 0 || string(body.Data) == "null" {
		return ErrMissingData
	}

	if err := json.Unmarshal(body.Data, out); err != nil {
		return fmt.Errorf("failed to decode subgraph data: %w", err)
	}

	return nil
}
