package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Message is one stored chat turn.
type Message struct {
	ChatID    int64
	Role      string // "user" or "assistant"
	Content   string
	CreatedAt time.Time
}

// HistoryStore keeps per-chat conversation memory.
type HistoryStore struct {
	Pool *pgxpool.Pool
}

func (s *HistoryStore) Append(ctx context.Context, msg Message) error {
	const q = `
		INSERT INTO chat_messages (chat_id, role, content)
		VALUES ($1, $2, $3)
	`
	_, err := s.Pool.Exec(ctx, q, msg.ChatID, msg.Role, msg.Content)
	return err
}

// Recent returns up to limit newest messages for a chat, oldest first.
func (s *HistoryStore) Recent(ctx context.Context, chatID int64, limit int) ([]Message, error) {
	const q = `
		SELECT chat_id, role, content, created_at FROM (
			SELECT chat_id, role, content, created_at
			FROM chat_messages
			WHERE chat_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) latest
		ORDER BY created_at ASC
	`
	rows, err := s.Pool.Query(ctx, q, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ChatID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}
