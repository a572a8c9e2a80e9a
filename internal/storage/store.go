// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"

	"github.com/mmynk/warikan/internal/models"
)

// Store defines the interface for per-group ledger storage.
// This abstraction allows swapping storage backends (JSON files, SQLite,
// etc.) without changing the command layer.
//
// The contract assumes at most one logical writer per group at a time,
// enforced by the caller; a write replaces the group's whole ledger in one
// operation, so two racing writers resolve as last-write-wins.
type Store interface {
	// ReadLedger loads the persisted transactions for a group in insertion
	// order. A group that has never been written reads as an empty ledger,
	// not an error.
	ReadLedger(ctx context.Context, groupID string) ([]models.Transaction, error)

	// WriteLedger replaces the group's ledger with the given transactions in
	// one atomic operation, creating the storage location if absent.
	WriteLedger(ctx context.Context, groupID string, transactions []models.Transaction) error

	// Close releases any resources held by the store.
	Close() error
}
