// Package ledger implements the group ledger commands: insert, delete,
// history, transfer listing and settlement. It is host-agnostic: the chat
// adapter (or any other caller) supplies the group id, user references and
// the two injected capabilities, and gets plain reply strings back.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/warikan/internal/metrics"
	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/netting"
	"github.com/mmynk/warikan/internal/storage"
)

// UnknownUserName is the placeholder a ResolveNameFunc must return for ids
// that are no longer resolvable (departed members).
const UnknownUserName = "(存在しないユーザー)"

// SettlementMemo marks the transactions Settle appends automatically.
const SettlementMemo = "(返金処理による自動入力)"

// ResolveNameFunc resolves an opaque user id to a display string. It must
// return UnknownUserName (or another well-defined placeholder) rather than
// fail for ids it cannot resolve.
type ResolveNameFunc func(ctx context.Context, userID string) string

// ConfirmFunc asks an external party whether to record a settlement. It may
// perform user-facing I/O and block for an externally bounded time; a
// timeout must surface here as false.
type ConfirmFunc func(ctx context.Context, transfer netting.Transfer) bool

// Entry is one payment handed to Insert.
type Entry struct {
	// Participant is the user whose share was covered.
	Participant models.UserRef

	// Payer is the user who actually paid.
	Payer models.UserRef

	Amount int64
	Title  string
}

// Service executes ledger commands against a storage backend.
// Each command is a short read → compute → write sequence with no internal
// parallelism; callers that need stronger guarantees than last-write-wins
// must serialize access per group id.
type Service struct {
	store storage.Store
	now   func() time.Time
}

// NewService creates a Service on the given storage backend.
func NewService(store storage.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Insert appends the given entries to the group's ledger, in input order.
// Entries where the participant and the payer are the same user are silently
// dropped; a batch that collapses to nothing fails with ErrNoEntries without
// touching storage. The success message enumerates the accepted entries.
func (s *Service) Insert(ctx context.Context, groupID string, entries []Entry) (msg string, err error) {
	defer func() { metrics.Commands.WithLabelValues("insert", status(err)).Inc() }()

	transactions, err := s.readLedger(ctx, groupID)
	if err != nil {
		return "", err
	}

	now := s.now()
	var accepted []Entry
	for _, e := range entries {
		// Covering one's own share is not a debt.
		if e.Participant.ID == e.Payer.ID {
			continue
		}
		accepted = append(accepted, e)
		transactions = append(transactions, models.Transaction{
			Payer:       e.Payer.ID,
			Participant: e.Participant.ID,
			Amount:      e.Amount,
			Memo:        e.Title,
			Date:        now,
		})
	}

	if len(accepted) == 0 {
		slog.Warn("insert batch collapsed to zero entries", "group_id", groupID, "batch_size", len(entries))
		return "", ErrNoEntries
	}

	if err := s.writeLedger(ctx, groupID, transactions); err != nil {
		return "", err
	}
	slog.Info("inserted transactions", "group_id", groupID, "count", len(accepted))

	blocks := make([]string, len(accepted))
	for i, e := range accepted {
		blocks[i] = fmt.Sprintf("\t返金する人: %s\n\t払った人: %s\n\t金額: %d\n\tタイトル: %s\n",
			e.Participant.DisplayName, e.Payer.DisplayName, e.Amount, e.Title)
	}
	return "以下の支払いを追加しました。\n" + strings.Join(blocks, "\n"), nil
}

// Delete removes the transaction at the given 1-based position in current
// read order and rewrites the ledger. Positions shift after a delete: the
// returned message warns that remaining ids may have changed.
func (s *Service) Delete(ctx context.Context, groupID string, position int, resolve ResolveNameFunc) (msg string, err error) {
	defer func() { metrics.Commands.WithLabelValues("delete", status(err)).Inc() }()

	transactions, err := s.readLedger(ctx, groupID)
	if err != nil {
		return "", err
	}

	if position < 1 || position > len(transactions) {
		slog.Warn("delete position out of range",
			"group_id", groupID, "position", position, "length", len(transactions))
		return "", &RangeError{Position: position, Length: len(transactions)}
	}

	deleted := transactions[position-1]
	transactions = append(transactions[:position-1], transactions[position:]...)

	if err := s.writeLedger(ctx, groupID, transactions); err != nil {
		return "", err
	}
	slog.Info("deleted transaction",
		"group_id", groupID, "position", position,
		"payer", deleted.Payer, "participant", deleted.Participant, "amount", deleted.Amount)

	return fmt.Sprintf("以下の支払いを削除しました。(他の項目のidが変更されている場合があります。)\n\t返金する人: %s\n\t払った人: %s\n\t金額: %d\n\tタイトル: %s",
		resolve(ctx, deleted.Participant), resolve(ctx, deleted.Payer), deleted.Amount, deleted.Memo), nil
}

// readLedger loads the group's ledger, instrumented and wrapped as a
// ReadError for uniform surfacing.
func (s *Service) readLedger(ctx context.Context, groupID string) ([]models.Transaction, error) {
	metrics.LedgerReads.Inc()
	transactions, err := s.store.ReadLedger(ctx, groupID)
	if err != nil {
		metrics.LedgerReadFailures.Inc()
		slog.Error("failed to read ledger", "group_id", groupID, "error", err)
		return nil, &ReadError{GroupID: groupID, Err: err}
	}
	return transactions, nil
}

// writeLedger replaces the group's ledger, instrumented and wrapped as a
// WriteError. Callers validate fully before calling: a write only happens
// with an in-memory, fully validated list.
func (s *Service) writeLedger(ctx context.Context, groupID string, transactions []models.Transaction) error {
	if err := s.store.WriteLedger(ctx, groupID, transactions); err != nil {
		slog.Error("failed to write ledger", "group_id", groupID, "error", err)
		return &WriteError{GroupID: groupID, Err: err}
	}
	metrics.LedgerWrites.Inc()
	return nil
}
