// Package jsonfile provides a file-backed implementation of the
// storage.Store interface: one pretty-printed JSON file per group, replaced
// atomically on every write.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"

	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on top of a directory of
// <groupID>.json files.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Close is a no-op; the store holds no open resources between calls.
func (s *Store) Close() error {
	return nil
}

// path maps a group id to its ledger file, rejecting ids that would escape
// the storage directory.
func (s *Store) path(groupID string) (string, error) {
	if groupID == "" || groupID != filepath.Base(groupID) || groupID == "." || groupID == ".." {
		return "", fmt.Errorf("invalid group id: %q", groupID)
	}
	return filepath.Join(s.dir, groupID+".json"), nil
}

// ReadLedger loads the group's transactions. A group without a file yet
// reads as an empty ledger.
func (s *Store) ReadLedger(_ context.Context, groupID string) ([]models.Transaction, error) {
	path, err := s.path(groupID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	transactions, err := decodeLedger(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger for group %s: %w", groupID, err)
	}
	return transactions, nil
}

// WriteLedger serializes the full transaction list and replaces the group's
// file in one atomic rename.
func (s *Store) WriteLedger(_ context.Context, groupID string, transactions []models.Transaction) error {
	path, err := s.path(groupID)
	if err != nil {
		return err
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}
	data, err := json.MarshalIndent(transactions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize ledger: %w", err)
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	return nil
}
