package regulations

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gasgenie/gasgenie-service/internal/services/pinecone"
	"github.com/gasgenie/gasgenie-service/internal/types"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (e *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	return []float32{0.5, 0.5}, e.err
}

type fakeIndex struct {
	matches []pinecone.Match
	topK    int
}

func (i *fakeIndex) Query(ctx context.Context, vector []float32, topK int) ([]pinecone.Match, error) {
	i.topK = topK
	return i.matches, nil
}

type mapCache map[string][]types.RegulationMatch

func (c mapCache) Get(ctx context.Context, query string, topK int) ([]types.RegulationMatch, bool) {
	m, ok := c[query]
	return m, ok
}

func (c mapCache) Set(ctx context.Context, query string, topK int, matches []types.RegulationMatch) {
	c[query] = matches
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSearch(t *testing.T) {
	index := &fakeIndex{matches: []pinecone.Match{
		{Score: 0.876, Metadata: map[string]any{"source": "GSIUR 1998", "section": "Reg 26", "content": "Duty to examine"}},
		{Score: 0.5, Metadata: map[string]any{"content": "no source"}},
	}}
	s := NewSearcher(&fakeEmbedder{}, index, nil, discard())

	matches, err := s.Search(context.Background(), "who must check appliances", 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if index.topK != 5 {
		t.Fatalf("Expected topK 5, got %d", index.topK)
	}
	if matches[0].Relevance != 88 || matches[0].Source != "GSIUR 1998" {
		t.Fatalf("Unexpected first match: %+v", matches[0])
	}
	if matches[1].Source != "Unknown" || matches[1].Relevance != 50 {
		t.Fatalf("Unexpected second match: %+v", matches[1])
	}
}

func TestSearch_UsesCache(t *testing.T) {
	embedder := &fakeEmbedder{}
	cache := mapCache{}
	s := NewSearcher(embedder, &fakeIndex{}, cache, discard())
	ctx := context.Background()

	s.Search(ctx, "ventilation", 5)
	s.Search(ctx, "ventilation", 5)

	if embedder.calls != 1 {
		t.Fatalf("Expected one embedding call, got %d", embedder.calls)
	}
}

func TestSearch_EmbedFailure(t *testing.T) {
	s := NewSearcher(&fakeEmbedder{err: errors.New("down")}, &fakeIndex{}, nil, discard())

	if _, err := s.Search(context.Background(), "x", 5); err == nil {
		t.Fatal("Expected error")
	}
}

func TestFormatForVoice(t *testing.T) {
	got := FormatForVoice([]types.RegulationMatch{
		{Source: "A", Section: "1", Content: "one"},
		{Source: "B", Section: "2", Content: "two"},
	})
	if got != "[A] 1: one\n\n[B] 2: two" {
		t.Fatalf("Unexpected voice text %q", got)
	}
}
