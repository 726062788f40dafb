package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL,
    full_name     TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    points        INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    suspended_at  DATETIME,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    owner_id    INTEGER NOT NULL REFERENCES users(id),
    title       TEXT NOT NULL,
    description TEXT,
    category    TEXT NOT NULL,
    size        TEXT,
    brand       TEXT,
    color       TEXT,
    condition   TEXT NOT NULL,
    tags        TEXT,
    photo       BLOB,
    photo_mime  TEXT,
    status      TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'pending_swap', 'swapped')),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id);

CREATE TABLE IF NOT EXISTS swaps (
    id               INTEGER PRIMARY KEY,
    proposer_id      INTEGER NOT NULL REFERENCES users(id),
    proposer_item_id INTEGER NOT NULL REFERENCES items(id),
    receiver_id      INTEGER NOT NULL REFERENCES users(id),
    receiver_item_id INTEGER NOT NULL REFERENCES items(id),
    status           TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'accepted', 'declined', 'meetup_pending', 'completed', 'cancelled')),
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (proposer_id <> receiver_id),
    CHECK (proposer_item_id <> receiver_item_id)
);

CREATE INDEX IF NOT EXISTS idx_swaps_proposer_item ON swaps(proposer_item_id);
CREATE INDEX IF NOT EXISTS idx_swaps_receiver_item ON swaps(receiver_item_id);

CREATE TABLE IF NOT EXISTS swap_messages (
    id         INTEGER PRIMARY KEY,
    swap_id    INTEGER NOT NULL REFERENCES swaps(id) ON DELETE CASCADE,
    sender_id  INTEGER NOT NULL REFERENCES users(id),
    content    TEXT NOT NULL CHECK (length(content) > 0),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_swap_messages_swap ON swap_messages(swap_id, id);

CREATE TABLE IF NOT EXISTS swap_reads (
    swap_id         INTEGER NOT NULL REFERENCES swaps(id) ON DELETE CASCADE,
    user_id         INTEGER NOT NULL REFERENCES users(id),
    last_message_id INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (swap_id, user_id)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
