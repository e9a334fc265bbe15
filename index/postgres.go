package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/rusca02/shpe-assistant/database"
)

// PostgresStore serves the index contract from a pgvector table instead of a
// file artifact. Rebuilds stay wholesale: one transaction truncates the table
// and inserts the new corpus, so concurrent readers see either the old or the
// new index.
type PostgresStore struct {
	pool      *pgxpool.Pool
	dimension int
}

func NewPostgresStore(pool *pgxpool.Pool, dimension int) *PostgresStore {
	return &PostgresStore{pool: pool, dimension: dimension}
}

var (
	_ Store    = (*PostgresStore)(nil)
	_ Searcher = (*PostgresStore)(nil)
)

func (s *PostgresStore) Replace(ctx context.Context, chunks []Chunk, vectors [][]float32) (err error) {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != s.dimension {
			return fmt.Errorf("vector %d: %w: expected %d, got %d", i, ErrDimensionMismatch, s.dimension, len(vec))
		}
	}

	if err := database.EnsureIndexSchema(ctx, s.pool, s.dimension); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, "TRUNCATE shpe_chunks"); err != nil {
		return fmt.Errorf("clear existing index: %w", err)
	}

	for i, chunk := range chunks {
		if _, err = tx.Exec(ctx, `
			INSERT INTO shpe_chunks (id, source, chunk_index, content, embedding)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New(), chunk.Source, chunk.Index, chunk.Content, pgvector.NewVector(vectors[i])); err != nil {
			return fmt.Errorf("insert chunk %d of %s: %w", chunk.Index, chunk.Source, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit index rebuild: %w", err)
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector: %w: expected %d, got %d", ErrDimensionMismatch, s.dimension, len(vector))
	}
	if k <= 0 {
		k = 5
	}

	rows, err := s.pool.Query(ctx, `
		SELECT source, chunk_index, content, (embedding <=> $1::vector) AS distance
		FROM shpe_chunks
		ORDER BY embedding <=> $1::vector, source ASC, chunk_index ASC
		LIMIT $2
	`, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("query similar chunks: %w", err)
	}
	defer rows.Close()

	results := make([]SearchResult, 0, k)
	for rows.Next() {
		var item SearchResult
		var distance float64
		if err := rows.Scan(&item.Chunk.Source, &item.Chunk.Index, &item.Chunk.Content, &distance); err != nil {
			return nil, fmt.Errorf("scan similar chunk: %w", err)
		}
		item.Score = 1 - distance
		results = append(results, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return results, nil
}
