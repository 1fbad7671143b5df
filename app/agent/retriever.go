package agent

import (
	"context"

	"gitabot/model"
	"gitabot/store"
)

const DefaultTopK = 3

// Retriever embeds a query and runs k-NN search against the vector index.
// The query must be embedded with the same model as ingestion; the store's
// fixed vector width is the only guard on that contract.
type Retriever struct {
	embedder model.EmbedderInterface
	index    store.IndexStorer
	topK     int
}

func NewRetriever(embedder model.EmbedderInterface, index store.IndexStorer, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
	}
}

// Retrieve returns the text of the topK most similar chunks, best match
// first. An index smaller than topK yields fewer chunks, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	chunks, err := r.index.Search(ctx, embedding, r.topK)
	if err != nil {
		return nil, model.NewUpstreamError("search", err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	return texts, nil
}
