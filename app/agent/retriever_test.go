package agent

import (
	"context"
	"errors"
	"testing"

	"gitabot/model"
	"gitabot/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vector, f.err
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, f.err
}

type fakeIndex struct {
	chunks    []types.Chunk
	err       error
	lastLimit int
}

func (f *fakeIndex) SaveCorpus(ctx context.Context, c types.Corpus) error { return nil }

func (f *fakeIndex) GetCorpusByID(ctx context.Context, id uuid.UUID) (*types.Corpus, error) {
	return nil, errors.New("not found")
}

func (f *fakeIndex) UpsertChunks(ctx context.Context, chunks []types.Chunk) error { return nil }

func (f *fakeIndex) Search(ctx context.Context, vec []float32, limit int) ([]types.Chunk, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.chunks) > limit {
		return f.chunks[:limit], nil
	}
	return f.chunks, nil
}

func TestRetrieveReturnsTextsInSimilarityOrder(t *testing.T) {
	index := &fakeIndex{chunks: []types.Chunk{
		{Content: "Dharma is duty.", Similarity: 0.97},
		{Content: "Follow your righteous path.", Similarity: 0.81},
	}}
	r := NewRetriever(&fakeEmbedder{vector: []float32{1, 0}}, index, 0)

	texts, err := r.Retrieve(context.Background(), "What is dharma?")
	require.NoError(t, err)

	assert.Equal(t, []string{"Dharma is duty.", "Follow your righteous path."}, texts)
	assert.Equal(t, DefaultTopK, index.lastLimit, "zero topK falls back to the default")
}

func TestRetrieveSmallIndexReturnsAllMatches(t *testing.T) {
	index := &fakeIndex{chunks: []types.Chunk{{Content: "only verse"}}}
	r := NewRetriever(&fakeEmbedder{vector: []float32{1}}, index, 5)

	texts, err := r.Retrieve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, texts, 1)
}

func TestRetrieveSearchFailureNamesStage(t *testing.T) {
	index := &fakeIndex{err: errors.New("connection reset")}
	r := NewRetriever(&fakeEmbedder{vector: []float32{1}}, index, 3)

	_, err := r.Retrieve(context.Background(), "anything")
	require.Error(t, err)

	var upstream *model.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "search", upstream.Stage)
}
