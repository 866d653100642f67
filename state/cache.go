package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

// ErrState is the sentinel wrapped by every error this package returns,
// letting callers test with errors.Is(err, state.ErrState) for the
// "state-error" condition: cache open, DDL, query, or transaction
// failure.
var ErrState = errors.New("state: cache error")

// batchLimit bounds how many keys participate in a single GetMany query or
// a single SetMany transaction, to stay under the host database's bound
// parameter limit.
const batchLimit = 7999

// Cache is a process-local handle to the fingerprint cache's embedded
// SQLite database.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path, applies
// the schema migrations, and sets the WAL/synchronous pragmas.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(ErrState, "create cache dir %q: %v", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(ErrState, "open %q: %v", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA synchronous = NORMAL`); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(ErrState, "set synchronous pragma: %v", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(ErrState, "set journal_mode pragma: %v", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(ErrState, "migrate %q: %v", path, err)
	}
	return &Cache{db: db}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// IsEmpty reports whether the cache currently holds no rows. Callers use
// this to skip a GetMany round trip against a cold cache.
func (c *Cache) IsEmpty() (bool, error) {
	var exists int
	err := c.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM cache WHERE raw = 1)`).Scan(&exists)
	if err != nil {
		return false, errors.Wrapf(ErrState, "is-empty probe: %v", err)
	}
	return exists == 0, nil
}

// Get returns the cached Value for key, if any.
func (c *Cache) Get(key string) (Value, bool, error) {
	var raw []byte
	err := c.db.QueryRow(`SELECT value FROM cache WHERE key = ? AND raw = 1`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, errors.Wrapf(ErrState, "get %q: %v", key, err)
	}
	v, err := unmarshalValue(raw)
	if err != nil {
		return Value{}, false, errors.Wrapf(ErrState, "decode value for %q: %v", key, err)
	}
	return v, true, nil
}

// GetMany looks up every key in keys, in batches of at most batchLimit,
// and returns whatever subset is present. Order of the input is
// irrelevant to the result.
func (c *Cache) GetMany(keys []string) (map[string]Value, error) {
	result := make(map[string]Value, len(keys))
	for start := 0; start < len(keys); start += batchLimit {
		end := start + batchLimit
		if end > len(keys) {
			end = len(keys)
		}
		if err := c.getBatch(keys[start:end], result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (c *Cache) getBatch(keys []string, into map[string]Value) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := make([]byte, 0, len(keys)*2)
	args := make([]interface{}, 0, len(keys))
	for i, k := range keys {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, k)
	}
	query := fmt.Sprintf(`SELECT key, value FROM cache WHERE raw = 1 AND key IN (%s)`, placeholders)
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return errors.Wrapf(ErrState, "get-many: %v", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return errors.Wrapf(ErrState, "get-many scan: %v", err)
		}
		v, err := unmarshalValue(raw)
		if err != nil {
			return errors.Wrapf(ErrState, "get-many decode %q: %v", key, err)
		}
		into[key] = v
	}
	if err := rows.Err(); err != nil {
		return errors.Wrapf(ErrState, "get-many iterate: %v", err)
	}
	return nil
}

// Set upserts a single key/value pair. SetMany is preferred for the
// builder's bulk writes; Set exists for callers handling one file at a
// time (e.g. the single-file snapshot path).
func (c *Cache) Set(key string, v Value) error {
	return c.SetMany(map[string]Value{key: v})
}

// SetMany upserts every pair in kv as one or more batched transactions of
// at most batchLimit statements each.
func (c *Cache) SetMany(kv map[string]Value) error {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	for start := 0; start < len(keys); start += batchLimit {
		end := start + batchLimit
		if end > len(keys) {
			end = len(keys)
		}
		if err := c.setBatch(keys[start:end], kv); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) setBatch(keys []string, kv map[string]Value) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := c.db.Begin()
	if err != nil {
		return errors.Wrapf(ErrState, "set-many begin: %v", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO cache (key, raw, store_time, access_time, mode, value)
		VALUES (?, 1, ?, ?, 1, ?)
		ON CONFLICT(key, raw) DO UPDATE SET value = excluded.value, store_time = excluded.store_time, access_time = excluded.access_time
	`)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(ErrState, "set-many prepare: %v", err)
	}
	defer func() { _ = stmt.Close() }()
	now := float64(time.Now().UnixNano()) / 1e9
	for _, k := range keys {
		raw, err := kv[k].marshal()
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(ErrState, "set-many encode %q: %v", k, err)
		}
		if _, err := stmt.Exec(k, now, now, raw); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(ErrState, "set-many exec %q: %v", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(ErrState, "set-many commit: %v", err)
	}
	log.WithField("count", len(keys)).Debug("state: committed batch")
	return nil
}
