package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/rewear/internal/model"
)

// Listing holds the owner-editable fields of an item.
type Listing struct {
	Title       string
	Description string
	Category    string
	Size        string
	Brand       string
	Color       string
	Condition   string
	Tags        string
}

// ItemFilter narrows ListItems. Zero values mean "no filter".
type ItemFilter struct {
	Search     string
	Category   string
	Brand      string
	Sizes      []string
	Conditions []string
	Status     string
	OwnerID    int64
}

const itemColumns = `i.id, i.owner_id, i.title, i.description, i.category, i.size, i.brand, i.color,
	i.condition, i.tags, i.status, i.photo IS NOT NULL, i.created_at, i.updated_at, i.deleted_at,
	COALESCE(u.full_name, '')`

const itemFrom = ` FROM items i LEFT JOIN users u ON u.id = i.owner_id`

func scanItem(row interface{ Scan(...any) error }, item *model.Item) error {
	var description, size, brand, color, tags sql.NullString
	var hasPhoto bool
	if err := row.Scan(&item.ID, &item.OwnerID, &item.Title, &description, &item.Category,
		&size, &brand, &color, &item.Condition, &tags, &item.Status, &hasPhoto,
		&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt, &item.OwnerName); err != nil {
		return err
	}
	item.Description = description.String
	item.Size = size.String
	item.Brand = brand.String
	item.Color = color.String
	item.Tags = tags.String
	item.Points = model.ConditionPoints(item.Condition)
	if hasPhoto {
		item.PhotoURL = fmt.Sprintf("/api/items/%d/photo", item.ID)
	}
	return nil
}

// CreateItem creates a new active listing owned by ownerID.
func CreateItem(ctx context.Context, db DBTX, ownerID int64, l Listing) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (owner_id, title, description, category, size, brand, color, condition, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ownerID, l.Title, l.Description, l.Category, l.Size, l.Brand, l.Color, l.Condition, l.Tags,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, including soft-deleted items.
func GetItem(ctx context.Context, db DBTX, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+itemFrom+` WHERE i.id = ?`, id,
	), item)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns non-deleted items matching the filter, newest first.
func ListItems(ctx context.Context, db DBTX, f ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + itemFrom + ` WHERE i.deleted_at IS NULL`
	var args []any

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query += ` AND (LOWER(i.title) LIKE ? OR LOWER(COALESCE(i.description, '')) LIKE ?
		           OR LOWER(COALESCE(i.brand, '')) LIKE ? OR LOWER(i.category) LIKE ?
		           OR LOWER(COALESCE(i.tags, '')) LIKE ?)`
		args = append(args, like, like, like, like, like)
	}
	if f.Category != "" {
		query += ` AND LOWER(i.category) = LOWER(?)`
		args = append(args, f.Category)
	}
	if f.Brand != "" {
		query += ` AND LOWER(i.brand) = LOWER(?)`
		args = append(args, f.Brand)
	}
	if len(f.Sizes) > 0 {
		query += ` AND i.size IN (` + placeholders(len(f.Sizes)) + `)`
		for _, s := range f.Sizes {
			args = append(args, s)
		}
	}
	if len(f.Conditions) > 0 {
		query += ` AND i.condition IN (` + placeholders(len(f.Conditions)) + `)`
		for _, c := range f.Conditions {
			args = append(args, c)
		}
	}
	if f.Status != "" {
		query += ` AND i.status = ?`
		args = append(args, f.Status)
	}
	if f.OwnerID > 0 {
		query += ` AND i.owner_id = ?`
		args = append(args, f.OwnerID)
	}

	query += ` ORDER BY i.created_at DESC, i.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListAvailableItems returns the owner's active items that no non-terminal
// swap references. These are the items the owner may offer in a proposal.
func ListAvailableItems(ctx context.Context, db DBTX, ownerID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+itemFrom+`
		 WHERE i.owner_id = ? AND i.deleted_at IS NULL AND i.status = ?
		   AND NOT EXISTS (
		       SELECT 1 FROM swaps s
		       WHERE (s.proposer_item_id = i.id OR s.receiver_item_id = i.id)
		         AND s.status IN (?, ?, ?))
		 ORDER BY i.created_at DESC, i.id DESC`,
		ownerID, model.ItemStatusActive,
		model.SwapStatusPending, model.SwapStatusAccepted, model.SwapStatusMeetupPending,
	)
	if err != nil {
		return nil, fmt.Errorf("listing available items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates a listing's owner-editable fields. Only active items are
// updated; the return value reports whether a row changed.
func UpdateItem(ctx context.Context, db DBTX, id int64, l Listing) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, category = ?, size = ?, brand = ?, color = ?,
		        condition = ?, tags = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND status = ?`,
		l.Title, l.Description, l.Category, l.Size, l.Brand, l.Color, l.Condition, l.Tags, id,
		model.ItemStatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	return n > 0, nil
}

// DeleteItem soft-deletes an item. Only active items are deleted; the return
// value reports whether a row changed.
func DeleteItem(ctx context.Context, db DBTX, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND status = ?`,
		id, model.ItemStatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return n > 0, nil
}

// SetItemStatus sets an item's availability status.
func SetItemStatus(ctx context.Context, db DBTX, id int64, status string) error {
	if !model.ValidItemStatus(status) {
		return fmt.Errorf("invalid item status %q", status)
	}
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("setting item status: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("setting item status: %w", err)
	} else if n == 0 {
		return fmt.Errorf("setting item status: item %d not found", id)
	}
	return nil
}

// ItemReserved reports whether a non-terminal swap references the item.
func ItemReserved(ctx context.Context, db DBTX, itemID int64) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swaps
		 WHERE (proposer_item_id = ? OR receiver_item_id = ?) AND status IN (?, ?, ?)`,
		itemID, itemID,
		model.SwapStatusPending, model.SwapStatusAccepted, model.SwapStatusMeetupPending,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking item reservation: %w", err)
	}
	return n > 0, nil
}

// SetItemPhoto sets an item's photo data.
func SetItemPhoto(ctx context.Context, db DBTX, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns an item's photo data and MIME type.
func GetItemPhoto(ctx context.Context, db DBTX, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}

// CountItemsByStatus returns the number of non-deleted items per status.
func CountItemsByStatus(ctx context.Context, db DBTX) (map[string]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM items WHERE deleted_at IS NULL GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning item count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
