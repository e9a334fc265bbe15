package index

import (
	"context"
	"fmt"
	"math"
	"sort"
)

var _ Searcher = (*Index)(nil)

// Search returns the k most similar chunks by cosine similarity, descending.
// Equal scores are ordered by ascending (source, chunk index) so repeated
// queries return identical rankings.
func (ix *Index) Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) != ix.Dimension {
		return nil, fmt.Errorf("query vector: %w: expected %d, got %d", ErrDimensionMismatch, ix.Dimension, len(vector))
	}
	if k <= 0 {
		k = 5
	}

	results := make([]SearchResult, 0, len(ix.Chunks))
	for i := range ix.Chunks {
		results = append(results, SearchResult{
			Chunk: ix.Chunks[i],
			Score: cosine(vector, ix.Vectors[i]),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Chunk.Source != results[j].Chunk.Source {
			return results[i].Chunk.Source < results[j].Chunk.Source
		}
		return results[i].Chunk.Index < results[j].Chunk.Index
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
