package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/rewear/internal/model"
)

const messageSelect = `SELECT m.id, m.swap_id, m.sender_id, m.content, m.created_at, COALESCE(u.full_name, '')
	FROM swap_messages m LEFT JOIN users u ON u.id = m.sender_id`

func scanMessage(row interface{ Scan(...any) error }, m *model.Message) error {
	return row.Scan(&m.ID, &m.SwapID, &m.SenderID, &m.Content, &m.CreatedAt, &m.SenderName)
}

// CreateMessage appends a message to a swap's thread.
func CreateMessage(ctx context.Context, db DBTX, swapID, senderID int64, content string) (*model.Message, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO swap_messages (swap_id, sender_id, content) VALUES (?, ?, ?)`,
		swapID, senderID, content,
	)
	if err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting message id: %w", err)
	}

	m := &model.Message{}
	err = scanMessage(db.QueryRowContext(ctx, messageSelect+` WHERE m.id = ?`, id), m)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("message %d vanished after insert", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting message: %w", err)
	}
	return m, nil
}

// ListMessages returns a swap's messages, oldest first.
func ListMessages(ctx context.Context, db DBTX, swapID int64) ([]model.Message, error) {
	rows, err := db.QueryContext(ctx,
		messageSelect+` WHERE m.swap_id = ? ORDER BY m.created_at, m.id`, swapID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead records that the user has seen every message currently in the swap.
func MarkRead(ctx context.Context, db DBTX, swapID, userID int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO swap_reads (swap_id, user_id, last_message_id)
		 VALUES (?, ?, (SELECT COALESCE(MAX(id), 0) FROM swap_messages WHERE swap_id = ?))
		 ON CONFLICT (swap_id, user_id) DO UPDATE SET last_message_id = excluded.last_message_id`,
		swapID, userID, swapID,
	)
	if err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}
	return nil
}

// UnreadCounts returns, per swap the user participates in, the number of
// messages from the other participant newer than the user's read mark. Swaps
// with nothing unread are omitted.
func UnreadCounts(ctx context.Context, db DBTX, userID int64) (map[int64]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT m.swap_id, COUNT(*)
		 FROM swap_messages m
		 JOIN swaps s ON s.id = m.swap_id
		 LEFT JOIN swap_reads r ON r.swap_id = m.swap_id AND r.user_id = ?
		 WHERE (s.proposer_id = ? OR s.receiver_id = ?)
		   AND m.sender_id <> ?
		   AND m.id > COALESCE(r.last_message_id, 0)
		 GROUP BY m.swap_id`,
		userID, userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting unread messages: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var swapID int64
		var n int
		if err := rows.Scan(&swapID, &n); err != nil {
			return nil, fmt.Errorf("scanning unread count: %w", err)
		}
		counts[swapID] = n
	}
	return counts, rows.Err()
}
