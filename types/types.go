package types

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Chunk is a bounded span of the source text together with its embedding.
// Created once at ingestion time, immutable afterwards. ID is derived from
// the corpus id and the window position, so re-ingesting the same corpus
// upserts in place.
type Chunk struct {
	ID         uuid.UUID
	CorpusID   uuid.UUID
	Position   int
	Content    string
	Embedding  []float32
	Similarity float64
}

// ConversationEntry is one message of a per-user history. Histories are
// append-only and ordered by insertion.
type ConversationEntry struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Corpus struct {
	ID         uuid.UUID
	Title      string
	SourcePath string
	Chunks     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IngestConfig controls the offline embedding pipeline.
type IngestConfig struct {
	MaxTokens int // tokens per chunk window
	BatchSize int // chunks per embedding request
	CropTop   float64
	CropBot   float64
}
