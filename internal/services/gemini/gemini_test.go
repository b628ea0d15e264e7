package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gasgenie/gasgenie-service/internal/config"
	"google.golang.org/genai"
)

type fakeModels struct {
	model         string
	contents      []*genai.Content
	genConfig     *genai.GenerateContentConfig
	embedConfig   *genai.EmbedContentConfig
	generateReply *genai.GenerateContentResponse
	embedReply    *genai.EmbedContentResponse
	err           error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.genConfig = model, contents, config
	return f.generateReply, f.err
}

func (f *fakeModels) EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.model, f.contents, f.embedConfig = model, contents, config
	return f.embedReply, f.err
}

func newTestClient(models Models) *Client {
	cfg := config.Gemini{
		VisionModel:    "gemini-2.0-flash",
		EmbeddingModel: "text-embedding-004",
		Temperature:    0.2,
		MaxTokens:      1024,
	}
	return NewWithModels(models, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGenerateJSON(t *testing.T) {
	models := &fakeModels{generateReply: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: `{"diagnosis":"ok"}`}}},
		}},
	}}
	c := newTestClient(models)

	text, err := c.GenerateJSON(context.Background(), []Part{
		{Text: "prompt"},
		{InlineData: &InlineData{MimeType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != `{"diagnosis":"ok"}` {
		t.Fatalf("Unexpected text %q", text)
	}

	if models.model != "gemini-2.0-flash" {
		t.Fatalf("Unexpected model %q", models.model)
	}
	if models.genConfig.ResponseMIMEType != "application/json" || models.genConfig.MaxOutputTokens != 1024 {
		t.Fatalf("Unexpected generation config: %+v", models.genConfig)
	}
	if models.genConfig.Temperature == nil || *models.genConfig.Temperature != float32(0.2) {
		t.Fatalf("Unexpected temperature %v", models.genConfig.Temperature)
	}
	if len(models.contents) != 1 || len(models.contents[0].Parts) != 2 {
		t.Fatalf("Unexpected contents: %+v", models.contents)
	}
	blob := models.contents[0].Parts[1].InlineData
	if blob == nil || blob.MIMEType != "image/jpeg" || len(blob.Data) != 2 {
		t.Fatalf("Unexpected inline data: %+v", blob)
	}
}

func TestGenerateJSON_NoCandidates(t *testing.T) {
	c := newTestClient(&fakeModels{generateReply: &genai.GenerateContentResponse{}})

	text, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "" {
		t.Fatalf("Expected empty text, got %q", text)
	}
}

func TestGenerateJSON_ProviderError(t *testing.T) {
	c := newTestClient(&fakeModels{err: errors.New("429 quota exceeded")})

	if _, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}}); err == nil {
		t.Fatal("Expected provider error to be returned")
	}
}

func TestEmbedQuery(t *testing.T) {
	models := &fakeModels{embedReply: &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, 0.2, 0.3}}},
	}}
	c := newTestClient(models)

	values, err := c.EmbedQuery(context.Background(), "flue clearance")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("Expected 3 values, got %d", len(values))
	}
	if models.model != "text-embedding-004" || models.embedConfig.TaskType != "RETRIEVAL_QUERY" {
		t.Fatalf("Unexpected embed call: model %q config %+v", models.model, models.embedConfig)
	}
	if models.contents[0].Parts[0].Text != "flue clearance" {
		t.Fatalf("Unexpected embed contents: %+v", models.contents[0].Parts[0])
	}
}

func TestEmbedQuery_Empty(t *testing.T) {
	c := newTestClient(&fakeModels{embedReply: &genai.EmbedContentResponse{}})

	if _, err := c.EmbedQuery(context.Background(), "x"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("Expected ErrEmptyResponse, got %v", err)
	}
}

func TestNew_WithoutKeyIsNotConfigured(t *testing.T) {
	c, err := New(context.Background(), config.Gemini{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := c.EmbedQuery(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
}
