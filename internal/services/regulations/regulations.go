package regulations

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/gasgenie/gasgenie-service/internal/services/pinecone"
	"github.com/gasgenie/gasgenie-service/internal/types"
)

const SearchTypeVector = "vector"

type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type Index interface {
	Query(ctx context.Context, vector []float32, topK int) ([]pinecone.Match, error)
}

// Cache is optional; a nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, query string, topK int) ([]types.RegulationMatch, bool)
	Set(ctx context.Context, query string, topK int, matches []types.RegulationMatch)
}

// Searcher finds regulation passages relevant to a free-text question.
type Searcher struct {
	embedder Embedder
	index    Index
	cache    Cache
	logger   *slog.Logger
}

func NewSearcher(embedder Embedder, index Index, cache Cache, logger *slog.Logger) *Searcher {
	return &Searcher{
		embedder: embedder,
		index:    index,
		cache:    cache,
		logger:   logger.With(slog.String("component", "regulation_search")),
	}
}

func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]types.RegulationMatch, error) {
	if s.cache != nil {
		if matches, ok := s.cache.Get(ctx, query, topK); ok {
			return matches, nil
		}
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	found, err := s.index.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query regulation index: %w", err)
	}

	matches := make([]types.RegulationMatch, 0, len(found))
	for _, m := range found {
		source := metaString(m.Metadata, "source")
		if source == "" {
			source = "Unknown"
		}
		matches = append(matches, types.RegulationMatch{
			Source:    source,
			Section:   metaString(m.Metadata, "section"),
			Content:   metaString(m.Metadata, "content"),
			Relevance: int(math.Round(m.Score * 100)),
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, query, topK, matches)
	}
	return matches, nil
}

func metaString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// FormatForVoice renders matches as "[source] section: content" blocks for a spoken reply.
func FormatForVoice(matches []types.RegulationMatch) string {
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, fmt.Sprintf("[%s] %s: %s", m.Source, m.Section, m.Content))
	}
	return strings.Join(blocks, "\n\n")
}
