package store

import (
	"context"

	"gitabot/types"

	"github.com/google/uuid"
)

type ChatStorer interface {
	Append(ctx context.Context, userID uuid.UUID, question, answer string) error
	History(ctx context.Context, userID uuid.UUID, limit int) ([]types.ConversationEntry, error)
}

// Append stores the question/answer pair for a user. Both rows go in a
// single multi-row INSERT, so concurrent requests for the same user cannot
// interleave a pair or lose one.
func (p *PostgresStore) Append(ctx context.Context, userID uuid.UUID, question, answer string) error {
	query := `
	INSERT INTO chat_messages (user_id, role, text)
	VALUES ($1, 'user', $2), ($1, 'bot', $3)
	`
	_, err := p.pool.Exec(ctx, query, userID, question, answer)
	return err
}

// History returns up to limit most recent entries for the user, oldest
// first.
func (p *PostgresStore) History(ctx context.Context, userID uuid.UUID, limit int) ([]types.ConversationEntry, error) {
	query := `
	SELECT role, text, created_at FROM (
		SELECT id, role, text, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	) recent
	ORDER BY id ASC
	`
	rows, err := p.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.ConversationEntry
	for rows.Next() {
		var e types.ConversationEntry
		if err := rows.Scan(&e.Role, &e.Text, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
