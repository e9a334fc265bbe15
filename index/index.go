// Package index holds the persisted vector index: every chunk of the corpus
// paired with its embedding, plus the retrieval operations over them. An
// index is rebuilt wholesale by an ingestion run and loaded read-only at
// query time.
package index

import (
	"context"
	"fmt"
)

// Chunk is a bounded, overlapping substring of a source document, the unit of
// embedding and retrieval.
type Chunk struct {
	Source  string
	Index   int
	Content string
}

// SearchResult pairs a chunk with its similarity to the query vector.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Store accepts a full corpus rebuild. Prior contents are replaced, never
// patched incrementally.
type Store interface {
	Replace(ctx context.Context, chunks []Chunk, vectors [][]float32) error
}

// Searcher answers nearest-neighbor queries over an indexed corpus.
type Searcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)
}

// Index keeps chunks and embeddings in parallel slices: Chunks[i] embeds to
// Vectors[i].
type Index struct {
	ModelInfo string
	Dimension int
	Chunks    []Chunk
	Vectors   [][]float32
}

func New(modelInfo string, dimension int) *Index {
	return &Index{ModelInfo: modelInfo, Dimension: dimension}
}

// Add appends chunk/vector pairs, enforcing the 1:1 pairing and the fixed
// dimensionality.
func (ix *Index) Add(chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != ix.Dimension {
			return fmt.Errorf("vector %d: %w: expected %d, got %d", i, ErrDimensionMismatch, ix.Dimension, len(vec))
		}
	}
	ix.Chunks = append(ix.Chunks, chunks...)
	ix.Vectors = append(ix.Vectors, vectors...)
	return nil
}

func (ix *Index) Len() int {
	return len(ix.Chunks)
}

// ValidateDimension rejects an index built with a different embedding
// dimensionality than the configured one. Callers treat this as a fatal
// configuration error, not a retrieval miss.
func (ix *Index) ValidateDimension(dimension int) error {
	if ix.Dimension != dimension {
		return fmt.Errorf("%w: index built with dimension %d, embedder produces %d", ErrDimensionMismatch, ix.Dimension, dimension)
	}
	return nil
}
