package ingestion

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rusca02/shpe-assistant/extract"
	"github.com/rusca02/shpe-assistant/index"
)

type fakeEmbedder struct {
	dim int
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, f.dim)
		vec[0] = float32(len(text))
		vectors[i] = vec
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimension() int    { return f.dim }
func (f *fakeEmbedder) ModelInfo() string { return "fake/embedder" }

type captureStore struct {
	chunks  []index.Chunk
	vectors [][]float32
	calls   int
}

func (s *captureStore) Replace(_ context.Context, chunks []index.Chunk, vectors [][]float32) error {
	s.calls++
	s.chunks = chunks
	s.vectors = vectors
	return nil
}

func newTestService(store index.Store, embedder *fakeEmbedder) *Service {
	logger := log.New(os.Stderr, "", 0)
	extractor := extract.NewExtractor(nil, nil, logger)
	return NewService(extractor, embedder, store, 500, 50, logger)
}

func TestIngestDirectorySingleTextFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.txt"), []byte("hello world"), 0o644))

	store := &captureStore{}
	svc := newTestService(store, &fakeEmbedder{dim: 4})

	require.NoError(t, svc.IngestDirectory(context.Background(), dir))
	require.Equal(t, 1, store.calls)
	require.Equal(t, []index.Chunk{{Source: "A.txt", Index: 0, Content: "hello world"}}, store.chunks)
	require.Len(t, store.vectors, 1)
	require.Len(t, store.vectors[0], 4)
}

func TestIngestDirectorySkipsUnsupportedAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.txt"), []byte("usable text"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.xyz"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte{0xff, 0xfe, 0xfd}, 0o644))

	store := &captureStore{}
	svc := newTestService(store, &fakeEmbedder{dim: 4})

	require.NoError(t, svc.IngestDirectory(context.Background(), dir))
	require.Equal(t, 1, store.calls)
	require.Len(t, store.chunks, 1)
	require.Equal(t, "good.txt", store.chunks[0].Source)
}

func TestIngestDirectoryChunkSequenceNumbers(t *testing.T) {
	dir := t.TempDir()
	long := make([]byte, 1100)
	for i := range long {
		long[i] = 'a'
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "long.txt"), long, 0o644))

	store := &captureStore{}
	svc := newTestService(store, &fakeEmbedder{dim: 4})

	require.NoError(t, svc.IngestDirectory(context.Background(), dir))
	require.Greater(t, len(store.chunks), 1)
	for i, chunk := range store.chunks {
		require.Equal(t, "long.txt", chunk.Source)
		require.Equal(t, i, chunk.Index)
	}
}

func TestIngestDirectoryEmbeddingFailureAborts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.txt"), []byte("hello world"), 0o644))

	store := &captureStore{}
	svc := newTestService(store, &fakeEmbedder{dim: 4, err: fmt.Errorf("service unavailable")})

	err := svc.IngestDirectory(context.Background(), dir)
	require.Error(t, err)
	require.Zero(t, store.calls)
}

func TestIngestDirectoryMissingDir(t *testing.T) {
	svc := newTestService(&captureStore{}, &fakeEmbedder{dim: 4})
	require.Error(t, svc.IngestDirectory(context.Background(), filepath.Join(t.TempDir(), "absent")))
}
