package index

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound reports a missing index artifact at query time.
var ErrNotFound = errors.New("index artifact not found")

// ErrDimensionMismatch reports an index whose vectors do not match the
// configured embedding dimensionality.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// FileStore persists the index as a single gob artifact. Saves write to a
// temporary file in the same directory and rename over the target, so readers
// never observe a half-written index.
type FileStore struct {
	path      string
	modelInfo string
	dimension int
}

func NewFileStore(path, modelInfo string, dimension int) *FileStore {
	return &FileStore{path: path, modelInfo: modelInfo, dimension: dimension}
}

var _ Store = (*FileStore)(nil)

// Replace rebuilds the artifact from the full corpus.
func (s *FileStore) Replace(ctx context.Context, chunks []Chunk, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ix := New(s.modelInfo, s.dimension)
	if err := ix.Add(chunks, vectors); err != nil {
		return err
	}
	return Save(ix, s.path)
}

// Save writes the index to path atomically.
func Save(ix *Index, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(ix); err != nil {
		tmp.Close()
		return fmt.Errorf("encode index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp index file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace index file: %w", err)
	}
	return nil
}

// Load reads a previously saved index. A missing path yields ErrNotFound; an
// unreadable artifact is reported as corrupt.
func Load(path string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer file.Close()

	var ix Index
	if err := gob.NewDecoder(file).Decode(&ix); err != nil {
		return nil, fmt.Errorf("index artifact %s is corrupt: %w", path, err)
	}
	if len(ix.Chunks) != len(ix.Vectors) {
		return nil, fmt.Errorf("index artifact %s is corrupt: %d chunks, %d vectors", path, len(ix.Chunks), len(ix.Vectors))
	}
	return &ix, nil
}
