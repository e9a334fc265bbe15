package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureIndexSchema creates the chunk table backing the Postgres index store.
// The embedding column dimension is fixed at creation; loading a corpus built
// with a different dimensionality fails in the store, not here.
func EnsureIndexSchema(ctx context.Context, pool *pgxpool.Pool, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive")
	}

	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS shpe_chunks (
			id UUID PRIMARY KEY,
			source TEXT NOT NULL,
			chunk_index INT NOT NULL,
			content TEXT NOT NULL,
			embedding VECTOR(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(source, chunk_index)
		)`, dimension),
		"CREATE INDEX IF NOT EXISTS idx_shpe_chunks_source ON shpe_chunks(source, chunk_index)",
		"CREATE INDEX IF NOT EXISTS idx_shpe_chunks_embedding ON shpe_chunks USING ivfflat (embedding vector_cosine_ops)",
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}

	return nil
}
