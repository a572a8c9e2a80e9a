package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// The position column preserves ledger insertion order; it is a storage
// detail, not a stable identifier: the command layer recomputes 1-based
// display ids from read order every time.
const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    payer TEXT NOT NULL,
    participant TEXT NOT NULL,
    amount INTEGER NOT NULL,
    memo TEXT NOT NULL,
    date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_group_id ON transactions(group_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_group_position ON transactions(group_id, position);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
