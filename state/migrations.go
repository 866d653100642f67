package state

import "database/sql"

// migration is a single forward-only schema change, modeled on the
// up-migration shape pressly/goose applies from its migration files: a
// descriptive name and a function that runs inside the open transaction.
// The cache's schema is small and stable enough that a single in-process
// slice is simpler than wiring the full goose file-discovery machinery for
// two migrations.
type migration struct {
	name string
	up   func(*sql.Tx) error
}

var migrations = []migration{
	{
		name: "create cache table",
		up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS cache (
					rowid INTEGER PRIMARY KEY,
					key BLOB,
					raw INTEGER,
					store_time REAL,
					expire_time REAL,
					access_time REAL,
					access_count INTEGER DEFAULT 0,
					tag BLOB,
					size INTEGER DEFAULT 0,
					mode INTEGER DEFAULT 0,
					filename TEXT,
					value BLOB
				)
			`)
			return err
		},
	},
	{
		name: "create cache key/raw unique index",
		up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS cache_key_raw ON cache(key, raw)`)
			return err
		},
	},
}

func migrate(db *sql.DB) error {
	for _, m := range migrations {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if err := m.up(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
