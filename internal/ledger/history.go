package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mmynk/warikan/internal/metrics"
	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/textfmt"
)

// DefaultHistoryCount is the number of rows History shows when the caller
// does not ask for a specific count.
const DefaultHistoryCount = 10

// HistoryOptions narrows and sizes a History listing.
type HistoryOptions struct {
	// Count caps the number of rendered rows; values below 1 mean
	// DefaultHistoryCount. The cap applies after filtering.
	Count int

	// User1 and User2, when set, keep only transactions where each given
	// user appears as payer or participant.
	User1 *models.UserRef
	User2 *models.UserRef
}

// positioned pairs a transaction with its 1-based position in storage order.
// Positions are recomputed on every read and are only meaningful within the
// response they appear in.
type positioned struct {
	position    int
	transaction models.Transaction
}

// History renders the group's transactions as a fixed-width table, newest
// first, with 1-based positional ids usable by Delete. Filtered down to
// opts.Count rows, with a trailing "(N more)" notice when more rows matched.
func (s *Service) History(ctx context.Context, groupID string, resolve ResolveNameFunc, opts HistoryOptions) (msg string, err error) {
	defer func() { metrics.Commands.WithLabelValues("history", status(err)).Inc() }()

	transactions, err := s.readLedger(ctx, groupID)
	if err != nil {
		return "", err
	}

	count := opts.Count
	if count < 1 {
		count = DefaultHistoryCount
	}

	var filtered []positioned
	for i, tx := range transactions {
		if opts.User1 != nil && !tx.Touches(opts.User1.ID) {
			continue
		}
		if opts.User2 != nil && !tx.Touches(opts.User2.ID) {
			continue
		}
		filtered = append(filtered, positioned{position: i + 1, transaction: tx})
	}

	if len(filtered) == 0 {
		return "見つかりませんでした", nil
	}
	slog.Info("rendered history", "group_id", groupID, "rows", len(filtered))

	rate := &textfmt.TableRate
	cut := textfmt.Options{Rate: rate, Truncate: true}
	plain := textfmt.Options{Rate: rate}

	var b strings.Builder
	b.WriteString("```\n")
	fmt.Fprintf(&b, "[%s] %s | %s | %s | 　%s | %s\n",
		textfmt.Pad("id", 3, plain),
		textfmt.Pad("件名", 10, cut),
		textfmt.Pad("支払った人", 12, cut),
		textfmt.Pad("支払われた人", 12, cut),
		textfmt.Pad("金額", 8, plain),
		textfmt.Pad("日付", 19, plain),
	)

	// Newest first: walk the filtered slice backwards.
	shown := 0
	for i := len(filtered) - 1; i >= 0 && shown < count; i-- {
		row := filtered[i]
		fmt.Fprintf(&b, "[%s] %s | %s | %s | %s円 | %s\n",
			textfmt.Pad(strconv.Itoa(row.position), 3, plain),
			textfmt.Pad(row.transaction.Memo, 10, cut),
			textfmt.Pad(resolve(ctx, row.transaction.Participant), 12, cut),
			textfmt.Pad(resolve(ctx, row.transaction.Payer), 12, cut),
			textfmt.Pad(strconv.FormatInt(row.transaction.Amount, 10), 8, plain),
			textfmt.FormatDate(row.transaction.Date),
		)
		shown++
	}
	if rest := len(filtered) - shown; rest > 0 {
		fmt.Fprintf(&b, "(他%d件)\n", rest)
	}
	b.WriteString("```")
	return b.String(), nil
}
