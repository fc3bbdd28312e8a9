package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts, quantities and rates are stored as TEXT and scanned into
// decimal values; REAL would reintroduce the float drift this schema is
// meant to avoid.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    phone TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    contact_id TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('gave', 'got')),
    amount TEXT NOT NULL,
    note TEXT,
    entry_date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS inventory_sync_groups (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    join_code TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS inventory_sync_group_members (
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL CHECK (role IN ('owner', 'member')),
    created_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES inventory_sync_groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS inventory_items (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    group_id TEXT,
    name TEXT NOT NULL,
    unit TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES inventory_sync_groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS inventory_movements (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    group_id TEXT,
    item_id TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('in', 'out')),
    quantity TEXT NOT NULL,
    note TEXT,
    movement_date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (item_id) REFERENCES inventory_items(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_contacts_owner_id ON contacts(owner_id);
CREATE INDEX IF NOT EXISTS idx_entries_owner_id ON entries(owner_id);
CREATE INDEX IF NOT EXISTS idx_entries_contact_id ON entries(contact_id);
CREATE INDEX IF NOT EXISTS idx_items_owner_id ON inventory_items(owner_id);
CREATE INDEX IF NOT EXISTS idx_items_group_id ON inventory_items(group_id);
CREATE INDEX IF NOT EXISTS idx_movements_owner_id ON inventory_movements(owner_id);
CREATE INDEX IF NOT EXISTS idx_movements_group_id ON inventory_movements(group_id);
CREATE INDEX IF NOT EXISTS idx_movements_item_id ON inventory_movements(item_id);
CREATE INDEX IF NOT EXISTS idx_members_group_id ON inventory_sync_group_members(group_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
