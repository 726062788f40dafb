package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/rewear/internal/model"
)

const swapColumns = `id, proposer_id, proposer_item_id, receiver_id, receiver_item_id, status, created_at, updated_at`

func scanSwap(row interface{ Scan(...any) error }, s *model.Swap) error {
	return row.Scan(&s.ID, &s.ProposerID, &s.ProposerItemID, &s.ReceiverID, &s.ReceiverItemID,
		&s.Status, &s.CreatedAt, &s.UpdatedAt)
}

// CreateSwap records a new pending swap and returns its ID. Item availability
// is the caller's responsibility and must be handled in the same transaction.
func CreateSwap(ctx context.Context, db DBTX, proposerID, proposerItemID, receiverID, receiverItemID int64) (int64, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO swaps (proposer_id, proposer_item_id, receiver_id, receiver_item_id, status)
		 VALUES (?, ?, ?, ?, ?)`,
		proposerID, proposerItemID, receiverID, receiverItemID, model.SwapStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("creating swap: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting swap id: %w", err)
	}
	return id, nil
}

// GetSwap returns a swap by ID.
func GetSwap(ctx context.Context, db DBTX, id int64) (*model.Swap, error) {
	s := &model.Swap{}
	err := scanSwap(db.QueryRowContext(ctx,
		`SELECT `+swapColumns+` FROM swaps WHERE id = ?`, id,
	), s)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting swap: %w", err)
	}
	return s, nil
}

// ListSwapsForUser returns swaps where the user is proposer or receiver,
// newest first.
func ListSwapsForUser(ctx context.Context, db DBTX, userID int64) ([]model.Swap, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+swapColumns+` FROM swaps
		 WHERE proposer_id = ? OR receiver_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing swaps: %w", err)
	}
	defer rows.Close()

	var swaps []model.Swap
	for rows.Next() {
		var s model.Swap
		if err := scanSwap(rows, &s); err != nil {
			return nil, fmt.Errorf("scanning swap: %w", err)
		}
		swaps = append(swaps, s)
	}
	return swaps, rows.Err()
}

// UpdateSwapStatus moves a swap from one status to another. It only applies
// when the stored status still equals from; the return value reports whether
// the row changed.
func UpdateSwapStatus(ctx context.Context, db DBTX, id int64, from, to string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE swaps SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		to, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("updating swap status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating swap status: %w", err)
	}
	return n > 0, nil
}

// DeleteSwap removes a swap. Messages and read marks cascade.
func DeleteSwap(ctx context.Context, db DBTX, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM swaps WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting swap: %w", err)
	}
	return nil
}

// CountSwapsByStatus returns the number of swaps per status.
func CountSwapsByStatus(ctx context.Context, db DBTX) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM swaps GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting swaps: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning swap count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
