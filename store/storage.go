package store

import (
	"context"
	"fmt"
	"log"

	"gitabot/model"
	"gitabot/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type IndexStorer interface {
	SaveCorpus(context.Context, types.Corpus) error
	GetCorpusByID(context.Context, uuid.UUID) (*types.Corpus, error)
	UpsertChunks(context.Context, []types.Chunk) error
	Search(context.Context, []float32, int) ([]types.Chunk, error)
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

// Init creates the schema. Every statement is IF NOT EXISTS, so running it
// against an existing database is a no-op.
func (p *PostgresStore) Init(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS corpora (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		source_path TEXT,
		chunks INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE,
		updated_at TIMESTAMP WITH TIME ZONE
	);

	CREATE TABLE IF NOT EXISTS chunks (
		id UUID PRIMARY KEY,
		corpus_id UUID NOT NULL,
		position INT NOT NULL,
		content TEXT NOT NULL,
		embedding vector(%d) NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_embedding ON chunks USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_chunks_corpus_id ON chunks(corpus_id);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('user','bot')),
		text TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_chat_messages_user_id ON chat_messages(user_id, id);
	`, model.EmbeddingDimensions)

	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) SaveCorpus(ctx context.Context, c types.Corpus) error {
	query := `INSERT INTO corpora (id, title, source_path, chunks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			source_path = EXCLUDED.source_path,
			chunks = EXCLUDED.chunks,
			updated_at = EXCLUDED.updated_at
		`
	_, err := p.pool.Exec(
		ctx,
		query,
		c.ID,
		c.Title,
		c.SourcePath,
		c.Chunks,
		c.CreatedAt,
		c.UpdatedAt,
	)

	return err
}

func (p *PostgresStore) GetCorpusByID(ctx context.Context, corpusID uuid.UUID) (*types.Corpus, error) {
	row := p.pool.QueryRow(ctx,
		"SELECT id, title, source_path, chunks, created_at, updated_at FROM corpora WHERE id = $1", corpusID)

	c := &types.Corpus{}
	if err := row.Scan(
		&c.ID,
		&c.Title,
		&c.SourcePath,
		&c.Chunks,
		&c.CreatedAt,
		&c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// UpsertChunks writes a batch of embedded chunks. Chunk ids are stable, so
// re-ingesting a corpus replaces vectors instead of duplicating them.
func (p *PostgresStore) UpsertChunks(ctx context.Context, chunks []types.Chunk) error {
	query := `
	INSERT INTO chunks (id, corpus_id, position, content, embedding)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		position = EXCLUDED.position,
		content = EXCLUDED.content,
		embedding = EXCLUDED.embedding
	`
	for _, c := range chunks {
		if len(c.Embedding) != model.EmbeddingDimensions {
			return fmt.Errorf("chunk %s: embedding has %d dimensions, index holds %d",
				c.ID, len(c.Embedding), model.EmbeddingDimensions)
		}
		_, err := p.pool.Exec(ctx, query,
			c.ID, c.CorpusID, c.Position, c.Content, pgvector.NewVector(c.Embedding),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Search runs cosine k-NN over the chunk index, best match first. Fewer than
// limit stored chunks just means a shorter result.
func (p *PostgresStore) Search(ctx context.Context, queryVec []float32, limit int) ([]types.Chunk, error) {
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}

	vector := pgvector.NewVector(queryVec)

	query := `
		SELECT id, corpus_id, position, content,
		       1 - (embedding <=> $1) AS similarity
		FROM chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := p.pool.Query(ctx, query, vector, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []types.Chunk
	for rows.Next() {
		var chunk types.Chunk
		if err := rows.Scan(
			&chunk.ID,
			&chunk.CorpusID,
			&chunk.Position,
			&chunk.Content,
			&chunk.Similarity); err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
