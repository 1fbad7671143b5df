package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gitabot/loader/internal"
	"gitabot/model"
	"gitabot/store"
	"gitabot/types"

	"github.com/google/uuid"
)

// Service is the offline ingestion pipeline: extract, chunk, embed in
// batches, upsert. One run per corpus update.
type Service struct {
	logger    *slog.Logger
	index     store.IndexStorer
	embedder  model.EmbedderInterface
	tokenizer internal.Tokenizer
	cfg       types.IngestConfig
}

func New(index store.IndexStorer, embedder model.EmbedderInterface, tokenizer internal.Tokenizer, cfg types.IngestConfig) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Service{
		logger:    slog.Default(),
		index:     index,
		embedder:  embedder,
		tokenizer: tokenizer,
		cfg:       cfg,
	}
}

// IngestFile runs the pipeline over a PDF on disk.
func (s *Service) IngestFile(ctx context.Context, path string) (*types.Corpus, error) {
	if s.cfg.CropTop > 0 || s.cfg.CropBot > 0 {
		if err := internal.CropMargins(path, path, s.cfg.CropTop, s.cfg.CropBot); err != nil {
			return nil, err
		}
	}

	s.logger.Info("extracting text", "path", path)
	text, err := internal.ExtractText(path)
	if err != nil {
		return nil, err
	}

	return s.IngestText(ctx, corpusTitle(path), path, text)
}

// IngestText chunks, embeds and upserts the already extracted text. A
// failed embedding batch or upsert aborts the run; no partial-success
// tracking, the next run upserts over whatever landed.
func (s *Service) IngestText(ctx context.Context, title, sourcePath, text string) (*types.Corpus, error) {
	windows := internal.SplitByTokens(s.tokenizer, text, s.cfg.MaxTokens)
	if len(windows) == 0 {
		return nil, fmt.Errorf("no text to ingest from %q", title)
	}
	s.logger.Info("text chunked", "title", title, "chunks", len(windows))

	corpusID := corpusUUID(title)

	for start := 0; start < len(windows); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(windows) {
			end = len(windows)
		}
		batch := windows[start:end]

		vectors, err := s.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch starting at chunk %d: %w", start, err)
		}

		chunks := make([]types.Chunk, len(batch))
		for j := range batch {
			pos := start + j
			chunks[j] = types.Chunk{
				ID:        chunkUUID(corpusID, pos),
				CorpusID:  corpusID,
				Position:  pos,
				Content:   batch[j],
				Embedding: vectors[j],
			}
		}

		if err := s.index.UpsertChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("upsert batch starting at chunk %d: %w", start, err)
		}
		s.logger.Info("batch upserted", "from", start, "to", end-1)
	}

	now := time.Now()
	corpus := &types.Corpus{
		ID:         corpusID,
		Title:      title,
		SourcePath: sourcePath,
		Chunks:     len(windows),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.index.SaveCorpus(ctx, *corpus); err != nil {
		return nil, err
	}

	return corpus, nil
}

// corpusUUID derives a stable corpus id from the title, so re-ingesting the
// same document replaces its chunks instead of adding a second copy.
func corpusUUID(title string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(title))
}

func chunkUUID(corpusID uuid.UUID, position int) uuid.UUID {
	return uuid.NewSHA1(corpusID, []byte(strconv.Itoa(position)))
}

func corpusTitle(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
