package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/warikan/internal/metrics"
	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/netting"
)

// ListTransfers renders the group's outstanding net transfers, optionally
// narrowed to those touching filterUserID.
func (s *Service) ListTransfers(ctx context.Context, groupID string, resolve ResolveNameFunc, filterUserID string) (msg string, err error) {
	defer func() { metrics.Commands.WithLabelValues("list", status(err)).Inc() }()

	transactions, err := s.readLedger(ctx, groupID)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, t := range netting.Net(transactions) {
		if filterUserID != "" && !t.Touches(filterUserID) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s ---- %d円 ---> %s\n",
			resolve(ctx, t.From), t.Amount, resolve(ctx, t.To)))
	}
	if len(lines) == 0 {
		return "現在、支払いは存在しません", nil
	}
	slog.Info("rendered transfer list", "group_id", groupID, "transfers", len(lines))
	return "現在残っている返金は以下のとおりです\n```\n" + strings.Join(lines, "") + "```", nil
}

// Settle records a confirmed payoff between userA and userB as a new ledger
// entry: the exact inverse of their outstanding net transfer. Prior
// transactions are never removed or marked; future netting recomputes from
// the full history and the new entry cancels the imbalance out.
//
// confirm is the only suspension point and may block for an externally
// bounded time; a false result leaves the ledger untouched.
func (s *Service) Settle(ctx context.Context, groupID string, userA, userB models.UserRef, confirm ConfirmFunc, resolve ResolveNameFunc) (msg string, err error) {
	defer func() { metrics.Commands.WithLabelValues("settle", status(err)).Inc() }()

	transactions, err := s.readLedger(ctx, groupID)
	if err != nil {
		return "", err
	}

	target := findTransfer(netting.Net(transactions), userA.ID, userB.ID)
	if target == nil {
		slog.Info("no settlement between pair", "group_id", groupID, "user_a", userA.ID, "user_b", userB.ID)
		return "", ErrNoSettlement
	}

	if !confirm(ctx, *target) {
		slog.Info("settlement cancelled", "group_id", groupID, "from", target.From, "to", target.To)
		return "", ErrCancelled
	}

	// Fresh read: confirm may have blocked for minutes, so the snapshot
	// from above is not reused.
	transactions, err = s.readLedger(ctx, groupID)
	if err != nil {
		return "", err
	}
	transactions = append(transactions, models.Transaction{
		Payer:       target.From,
		Participant: target.To,
		Amount:      target.Amount,
		Memo:        SettlementMemo,
		Date:        s.now(),
	})

	if err := s.writeLedger(ctx, groupID, transactions); err != nil {
		return "", err
	}
	metrics.Settlements.Inc()
	slog.Info("recorded settlement",
		"group_id", groupID, "from", target.From, "to", target.To, "amount", target.Amount)

	return fmt.Sprintf("返金を記録しました：%s ---> %s (%d円)",
		resolve(ctx, target.From), resolve(ctx, target.To), target.Amount), nil
}

// findTransfer locates the transfer whose {from, to} set equals {a, b}.
// A zero amount counts as no transfer: the pair nets to nothing.
func findTransfer(transfers []netting.Transfer, a, b string) *netting.Transfer {
	for i := range transfers {
		t := &transfers[i]
		if (t.From == a && t.To == b) || (t.From == b && t.To == a) {
			if t.Amount == 0 {
				return nil
			}
			return t
		}
	}
	return nil
}
