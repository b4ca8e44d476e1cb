// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storage.IOError("create database directory", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storage.IOError("open database", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, storage.IOError("enable foreign keys", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, storage.IOError("run migrations", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type activityRow struct {
	id          string
	position    int
	description string
	payerName   string
	payerAmount string
	payerPaid   int
}

// Load reads every activity ordered by position. Rows that do not form a valid
// record are reported with their position and skipped.
func (s *SQLiteStore) Load(ctx context.Context) (*storage.LoadResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, position, description, payer_name, payer_amount, payer_paid
		 FROM activities ORDER BY position`,
	)
	if err != nil {
		return nil, storage.IOError("list activities", err)
	}

	var headers []activityRow
	for rows.Next() {
		var r activityRow
		if err := rows.Scan(&r.id, &r.position, &r.description, &r.payerName, &r.payerAmount, &r.payerPaid); err != nil {
			rows.Close()
			return nil, storage.IOError("scan activity", err)
		}
		headers = append(headers, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storage.IOError("iterate activities", err)
	}

	result := &storage.LoadResult{}
	for _, h := range headers {
		fields := []string{h.description, h.payerName, h.payerAmount, strconv.FormatBool(h.payerPaid != 0)}

		participants, err := s.participantFields(ctx, h.id)
		if err != nil {
			return nil, err
		}
		fields = append(fields, participants...)

		a, err := models.ParseFields(fields)
		if err != nil {
			result.Errors = append(result.Errors, storage.LineError{Line: h.position, Err: err})
			continue
		}
		result.Add(a, h.position)
	}

	return result, nil
}

func (s *SQLiteStore) participantFields(ctx context.Context, activityID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, amount, paid FROM activity_participants
		 WHERE activity_id = ? ORDER BY position`,
		activityID,
	)
	if err != nil {
		return nil, storage.IOError("get participants", err)
	}
	defer rows.Close()

	var fields []string
	for rows.Next() {
		var name, amount string
		var paid int
		if err := rows.Scan(&name, &amount, &paid); err != nil {
			return nil, storage.IOError("scan participant", err)
		}
		fields = append(fields, name, amount, strconv.FormatBool(paid != 0))
	}
	if err := rows.Err(); err != nil {
		return nil, storage.IOError("iterate participants", err)
	}
	return fields, nil
}

// Save replaces the stored activities in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, activities []*models.Activity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.IOError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM activity_participants"); err != nil {
		return storage.IOError("clear participants", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM activities"); err != nil {
		return storage.IOError("clear activities", err)
	}

	now := time.Now().Unix()
	for i, a := range activities {
		id := uuid.New().String()
		payer := a.Payer()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO activities (id, position, description, payer_name, payer_amount, payer_paid, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i+1, a.Description(), payer.Name, payer.Amount.StringFixed(2), boolToInt(payer.Paid), now,
		)
		if err != nil {
			return storage.IOError(fmt.Sprintf("insert activity %d", i+1), err)
		}

		for j, p := range a.Owed() {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO activity_participants (activity_id, position, name, amount, paid)
				 VALUES (?, ?, ?, ?, ?)`,
				id, j+1, p.Name, p.Amount.StringFixed(2), boolToInt(p.Paid),
			)
			if err != nil {
				return storage.IOError(fmt.Sprintf("insert participant %s", p.Name), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.IOError("commit transaction", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
