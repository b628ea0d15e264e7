// Package pinecone queries the regulation passages held in a Pinecone serverless index.
package pinecone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gasgenie/gasgenie-service/internal/config"
	"github.com/pinecone-io/go-pinecone/pinecone"
)

var ErrNotConfigured = errors.New("pinecone index not configured")

type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// Querier is the subset of *pinecone.IndexConnection the client calls.
type Querier interface {
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
}

type Client struct {
	index  Querier
	close  func() error
	logger *slog.Logger
}

// New connects to the index host. Missing credentials leave the client unconfigured so
// Query fails with ErrNotConfigured instead of the process refusing to start.
func New(cfg config.Pinecone, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	c := &Client{logger: logger.With(slog.String("component", "pinecone_client"))}

	host := normalizeHost(cfg.IndexHost)
	if cfg.APIKey == "" || host == "" {
		c.logger.Warn("Pinecone not configured, regulation search is disabled")
		return c, nil
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey:     cfg.APIKey,
		RestClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create pinecone client: %w", err)
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{Host: host})
	if err != nil {
		return nil, fmt.Errorf("connect pinecone index %s: %w", host, err)
	}

	c.index = conn
	c.close = conn.Close
	return c, nil
}

// NewWithQuerier builds a client over an existing index connection.
func NewWithQuerier(index Querier, logger *slog.Logger) *Client {
	return &Client{index: index, logger: logger.With(slog.String("component", "pinecone_client"))}
}

// normalizeHost strips the scheme and trailing slash the console copies along with the
// index host.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimRight(host, "/")
}

// Query returns the topK nearest vectors with their metadata.
func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if c.index == nil {
		return nil, ErrNotConfigured
	}
	if topK <= 0 {
		return []Match{}, nil
	}

	res, err := c.index.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		c.logger.Error("Pinecone query failed",
			slog.Int("top_k", topK),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("pinecone query: %w", err)
	}

	matches := make([]Match, 0, len(res.Matches))
	for _, m := range res.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		match := Match{ID: m.Vector.Id, Score: float64(m.Score), Metadata: map[string]any{}}
		if m.Vector.Metadata != nil {
			match.Metadata = m.Vector.Metadata.AsMap()
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (c *Client) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}
