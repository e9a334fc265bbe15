// Package answer composes a final answer from retrieved chunks with an
// iterative refine strategy: the draft is seeded from the top-ranked chunk
// and revised once per remaining chunk, keeping each model call bounded to
// one chunk plus the running draft.
package answer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rusca02/shpe-assistant/index"
	"github.com/rusca02/shpe-assistant/llm"
)

// Answer is the synthesized response plus token usage for cost visibility.
type Answer struct {
	Text         string
	QueryTokens  int
	AnswerTokens int
}

type Synthesizer struct {
	llm     llm.Client
	counter TokenCounter
	logger  *log.Logger
}

func NewSynthesizer(client llm.Client, counter TokenCounter, logger *log.Logger) *Synthesizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Synthesizer{llm: client, counter: counter, logger: logger}
}

// Answer runs the refine loop over results in ranked order. Generation
// failures surface to the caller; token counting failures only log, since the
// counts are observational and never gate generation.
func (s *Synthesizer) Answer(ctx context.Context, query string, results []index.SearchResult) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, fmt.Errorf("query cannot be empty")
	}
	if s.llm == nil {
		return Answer{}, fmt.Errorf("llm client is not configured")
	}

	queryTokens := s.countTokens(query)

	var draft string
	var err error
	if len(results) == 0 {
		s.logger.Printf("no context retrieved, answering from the model alone")
		draft, err = s.generate(ctx, directPrompt(query))
		if err != nil {
			return Answer{}, err
		}
	} else {
		draft, err = s.generate(ctx, initialPrompt(query, results[0].Chunk.Content))
		if err != nil {
			return Answer{}, err
		}
		for _, result := range results[1:] {
			draft, err = s.generate(ctx, refinePrompt(query, draft, result.Chunk.Content))
			if err != nil {
				return Answer{}, err
			}
		}
	}

	text := strings.TrimSpace(draft)
	answerTokens := s.countTokens(text)
	s.logger.Printf("query tokens: %d, answer tokens: %d", queryTokens, answerTokens)

	return Answer{
		Text:         text,
		QueryTokens:  queryTokens,
		AnswerTokens: answerTokens,
	}, nil
}

func (s *Synthesizer) generate(ctx context.Context, user string) (string, error) {
	text, err := s.llm.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}
	return text, nil
}

func (s *Synthesizer) countTokens(text string) int {
	if s.counter == nil {
		return 0
	}
	n, err := s.counter.CountTokens(text)
	if err != nil {
		s.logger.Printf("token counting failed: %v", err)
		return 0
	}
	return n
}
