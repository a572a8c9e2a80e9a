// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface, for deployments that outgrow one-file-per-group
// JSON storage. A whole-ledger write is one DELETE+INSERT transaction, so a
// group's replace stays atomic.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/storage"
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
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReadLedger retrieves the group's transactions in insertion order.
// A group with no rows reads as an empty ledger.
func (s *SQLiteStore) ReadLedger(ctx context.Context, groupID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT payer, participant, amount, memo, date FROM transactions WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		var date string
		if err := rows.Scan(&tx.Payer, &tx.Participant, &tx.Amount, &tx.Memo, &date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ledger for group %s: bad date %q: %w", groupID, date, err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// WriteLedger replaces the group's ledger inside one database transaction.
func (s *SQLiteStore) WriteLedger(ctx context.Context, groupID string, transactions []models.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		"DELETE FROM transactions WHERE group_id = ?", groupID,
	); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}

	for position, tx := range transactions {
		_, err := dbTx.ExecContext(ctx,
			"INSERT INTO transactions (id, group_id, position, payer, participant, amount, memo, date) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			uuid.New().String(), groupID, position+1,
			tx.Payer, tx.Participant, tx.Amount, tx.Memo,
			tx.Date.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
