package sqlite

import "database/sql"

// schema sets up the database tables. It runs on startup to ensure tables exist.
// Amounts are stored as decimal text so no precision is lost in REAL columns.
const schema = `
CREATE TABLE IF NOT EXISTS activities (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    description TEXT NOT NULL,
    payer_name TEXT NOT NULL,
    payer_amount TEXT NOT NULL,
    payer_paid INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_participants (
    activity_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    amount TEXT NOT NULL,
    paid INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (activity_id, position),
    FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_activities_position ON activities(position);
CREATE INDEX IF NOT EXISTS idx_activity_participants_activity_id ON activity_participants(activity_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
