package ledger

import (
	"errors"
	"fmt"
)

// Command errors fall into three families: storage errors (the persisted
// data could not be loaded or parsed), validation errors (the request
// referenced data that does not exist), and the user declining a settlement.
// All are local, recoverable-by-retry conditions; none is fatal.
var (
	// ErrNoEntries means an insert batch collapsed to zero valid entries.
	ErrNoEntries = errors.New("no entries to insert")

	// ErrNoSettlement means no net transfer exists between the two users,
	// including the case where their mutual debt nets exactly to zero.
	ErrNoSettlement = errors.New("no matching settlement")

	// ErrCancelled means the user declined (or timed out of) a settlement
	// confirmation. Not a failure: no data changed.
	ErrCancelled = errors.New("settlement cancelled")
)

// ReadError wraps a failure to load or parse a group's persisted ledger.
type ReadError struct {
	GroupID string
	Err     error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read ledger for group %s: %v", e.GroupID, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a failure to persist a group's ledger.
type WriteError struct {
	GroupID string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write ledger for group %s: %v", e.GroupID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// RangeError reports a delete position outside the current ledger, which
// holds positions 1..Length.
type RangeError struct {
	Position int
	Length   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("position %d out of range 1..%d", e.Position, e.Length)
}

// UserMessage maps a command error to its user-facing reply text. A
// cancelled settlement intentionally maps to an empty message.
func UserMessage(err error) string {
	var (
		readErr  *ReadError
		writeErr *WriteError
		rangeErr *RangeError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return ""
	case errors.As(err, &readErr):
		return "データ読み込みの際にエラーが発生しました。"
	case errors.As(err, &writeErr):
		return "データ書き込みの際にエラーが発生しました。"
	case errors.As(err, &rangeErr):
		return fmt.Sprintf("ID: %d のデータは見つかりませんでした。（1 〜 %d の範囲で指定してください）", rangeErr.Position, rangeErr.Length)
	case errors.Is(err, ErrNoEntries):
		return "追加するデータはありませんでした。"
	case errors.Is(err, ErrNoSettlement):
		return "該当する返金データが見つかりませんでした。"
	default:
		return "エラーが発生しました。"
	}
}

// status buckets an error for the command outcome metric.
func status(err error) string {
	var (
		readErr  *ReadError
		writeErr *WriteError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.As(err, &readErr), errors.As(err, &writeErr):
		return "storage_error"
	default:
		return "validation_error"
	}
}
