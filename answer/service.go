package answer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rusca02/shpe-assistant/embeddings"
	"github.com/rusca02/shpe-assistant/index"
)

// Service is the query-time pipeline: embed the question, retrieve the
// nearest chunks, and synthesize an answer. It is constructed once at process
// start around a read-only searcher.
type Service struct {
	embedder embeddings.Embedder
	searcher index.Searcher
	synth    *Synthesizer
	topK     int
	logger   *log.Logger
}

func NewService(embedder embeddings.Embedder, searcher index.Searcher, synth *Synthesizer, topK int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		embedder: embedder,
		searcher: searcher,
		synth:    synth,
		topK:     topK,
		logger:   logger,
	}
}

// Ask answers one question. k <= 0 falls back to the configured default.
func (s *Service) Ask(ctx context.Context, question string, k int) (Answer, []index.SearchResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, nil, fmt.Errorf("question cannot be empty")
	}
	if s.embedder == nil {
		return Answer{}, nil, fmt.Errorf("embedder is not configured")
	}
	if s.searcher == nil {
		return Answer{}, nil, fmt.Errorf("searcher is not configured")
	}
	if k <= 0 {
		k = s.topK
	}

	vectors, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return Answer{}, nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) == 0 {
		return Answer{}, nil, fmt.Errorf("embedder returned no vectors")
	}

	results, err := s.searcher.Search(ctx, vectors[0], k)
	if err != nil {
		return Answer{}, nil, fmt.Errorf("vector search: %w", err)
	}

	ans, err := s.synth.Answer(ctx, question, results)
	if err != nil {
		return Answer{}, nil, err
	}
	return ans, results, nil
}
