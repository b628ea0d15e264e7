// Package gemini wraps the Gemini models used for photo diagnosis and regulation
// embeddings.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gasgenie/gasgenie-service/internal/config"
	"google.golang.org/genai"
)

const retrievalQuery = "RETRIEVAL_QUERY"

var (
	ErrNotConfigured = errors.New("gemini API key not configured")
	ErrEmptyResponse = errors.New("gemini returned no content")
)

// Models is the subset of *genai.Models the client calls.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type Client struct {
	models         Models
	visionModel    string
	embeddingModel string
	temperature    float32
	maxTokens      int32

	logger *slog.Logger
}

// New builds a client on the Gemini API backend. Without an API key the client is
// returned unconfigured and every call fails with ErrNotConfigured.
func New(ctx context.Context, cfg config.Gemini, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	c := newClient(nil, cfg, logger)
	if cfg.APIKey == "" {
		c.logger.Warn("Gemini API key not set, diagnosis and regulation search are disabled")
		return c, nil
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	c.models = client.Models
	return c, nil
}

// NewWithModels builds a client over an existing Models implementation.
func NewWithModels(models Models, cfg config.Gemini, logger *slog.Logger) *Client {
	return newClient(models, cfg, logger)
}

func newClient(models Models, cfg config.Gemini, logger *slog.Logger) *Client {
	return &Client{
		models:         models,
		visionModel:    cfg.VisionModel,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    float32(cfg.Temperature),
		maxTokens:      int32(cfg.MaxTokens),
		logger:         logger.With(slog.String("component", "gemini_client")),
	}
}

func (c *Client) VisionModel() string {
	return c.visionModel
}

// Part is one piece of a prompt: text or inline binary data.
type Part struct {
	Text       string
	InlineData *InlineData
}

type InlineData struct {
	MimeType string
	Data     []byte
}

func toGenaiParts(parts []Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.InlineData != nil {
			out = append(out, genai.NewPartFromBytes(p.InlineData.Data, p.InlineData.MimeType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return out
}

// GenerateJSON sends parts to the vision model asking for a JSON reply and returns the text
// of the first candidate. An empty reply is not an error.
func (c *Client) GenerateJSON(ctx context.Context, parts []Part) (string, error) {
	if c.models == nil {
		return "", ErrNotConfigured
	}

	contents := []*genai.Content{genai.NewContentFromParts(toGenaiParts(parts), genai.RoleUser)}
	resp, err := c.models.GenerateContent(ctx, c.visionModel, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.temperature),
		MaxOutputTokens:  c.maxTokens,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		c.logger.Error("Gemini generateContent failed",
			slog.String("model", c.visionModel),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return resp.Text(), nil
}

// EmbedQuery returns the retrieval-query embedding of text.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if c.models == nil {
		return nil, ErrNotConfigured
	}

	resp, err := c.models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: retrievalQuery,
	})
	if err != nil {
		c.logger.Error("Gemini embedContent failed",
			slog.String("model", c.embeddingModel),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}

	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp.Embeddings[0].Values, nil
}
