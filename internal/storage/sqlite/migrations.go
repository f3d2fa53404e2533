package sqlite

import (
	"context"
	"database/sql"
)

// schema sets up the database. Statements are idempotent and run on every
// open. Edge tables reference groups with ON DELETE CASCADE, so removing a
// group row also removes its edges.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_users (
    group_id INTEGER NOT NULL,
    user_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS group_rooms (
    group_id INTEGER NOT NULL,
    room_id TEXT NOT NULL,
    room_alias TEXT,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, room_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_group_users_user_id ON group_users(user_id);
CREATE INDEX IF NOT EXISTS idx_group_rooms_room_id ON group_rooms(room_id);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
