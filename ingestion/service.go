// Package ingestion runs the offline pipeline: walk the corpus directory,
// extract raw text, split it into overlapping chunks, embed every chunk, and
// hand the full corpus to the index store in one wholesale rebuild.
package ingestion

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/rusca02/shpe-assistant/embeddings"
	"github.com/rusca02/shpe-assistant/extract"
	"github.com/rusca02/shpe-assistant/index"
)

type Service struct {
	extractor    *extract.Extractor
	embedder     embeddings.Embedder
	store        index.Store
	chunkSize    int
	chunkOverlap int
	logger       *log.Logger
}

func NewService(extractor *extract.Extractor, embedder embeddings.Embedder, store index.Store, chunkSize, chunkOverlap int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		extractor:    extractor,
		embedder:     embedder,
		store:        store,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// IngestDirectory rebuilds the index from every supported file under dir.
// A single document failing extraction is logged and excluded; the run
// continues. Embedding or store failures abort the run.
func (s *Service) IngestDirectory(ctx context.Context, dir string) error {
	if s.embedder == nil {
		return fmt.Errorf("embedder not configured")
	}
	if s.store == nil {
		return fmt.Errorf("index store not configured")
	}

	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("data directory: %w", err)
	}

	paths := make([]string, 0)
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if extract.DetectFormat(path) == extract.FormatUnknown {
			s.logger.Printf("skip unsupported file %s", path)
			return nil
		}
		paths = append(paths, path)
		return nil
	}); err != nil {
		return fmt.Errorf("walk data directory: %w", err)
	}

	if len(paths) == 0 {
		s.logger.Printf("no supported documents found in %s", dir)
		return nil
	}

	docs := make([]extract.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := s.extractor.Extract(ctx, path)
		if err != nil {
			s.logger.Printf("extraction failed for %s: %v", path, err)
			continue
		}
		if doc.Text == "" {
			s.logger.Printf("no text extracted from %s, excluding from corpus", path)
			continue
		}
		docs = append(docs, doc)
	}

	chunks := s.chunkDocuments(docs)
	if len(chunks) == 0 {
		s.logger.Printf("corpus produced no chunks, writing empty index")
		return s.store.Replace(ctx, nil, nil)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: have %d chunks, %d vectors", len(chunks), len(vectors))
	}

	if err := s.store.Replace(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	s.logger.Printf("indexed %d documents (%d chunks)", len(docs), len(chunks))
	return nil
}

func (s *Service) chunkDocuments(docs []extract.Document) []index.Chunk {
	chunks := make([]index.Chunk, 0)
	for _, doc := range docs {
		parts := SplitText(doc.Text, s.chunkSize, s.chunkOverlap)
		for i, part := range parts {
			chunks = append(chunks, index.Chunk{
				Source:  doc.Filename,
				Index:   i,
				Content: part,
			})
		}
	}
	return chunks
}
