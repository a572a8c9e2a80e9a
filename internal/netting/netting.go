// Package netting reduces a ledger of individual cover-payments to the
// minimal set of net transfers between pairs of users.
//
// Netting is pairwise only: the two directions between one pair of users are
// aggregated and cancelled against each other, but no attempt is made to
// minimize the transfer count across three or more parties.
package netting

import "github.com/mmynk/warikan/internal/models"

// Transfer is the net amount From must pay To once every transaction between
// the pair, in both directions, has been aggregated. Derived, never
// persisted; recomputed from the full ledger on every query.
type Transfer struct {
	From   string
	To     string
	Amount int64
}

// Touches reports whether the transfer involves the given user id.
func (t Transfer) Touches(userID string) bool {
	return t.From == userID || t.To == userID
}

// pair is an ordered (participant, payer) aggregation key. Direction
// matters: A covering for B is a different bucket than B covering for A.
type pair struct {
	participant string
	payer       string
}

func (p pair) reversed() pair {
	return pair{participant: p.payer, payer: p.participant}
}

// Net aggregates transactions by ordered (participant, payer) pair and
// cancels each pair against its reverse. For each unordered pair it emits at
// most one Transfer, pointing from the net debtor to the net creditor with
// the absolute difference of the two direction totals; exactly equal totals
// emit nothing.
//
// Transfers are emitted in order of the pair's first appearance in the
// ledger, so output is deterministic for a given ledger.
func Net(transactions []models.Transaction) []Transfer {
	totals := make(map[pair]int64)
	var order []pair
	for _, tx := range transactions {
		key := pair{participant: tx.Participant, payer: tx.Payer}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += tx.Amount
	}

	counted := make(map[pair]bool)
	var transfers []Transfer
	for _, key := range order {
		if counted[key] {
			continue
		}
		forward := totals[key]
		reverse, hasReverse := totals[key.reversed()]
		if hasReverse {
			counted[key.reversed()] = true
		}

		switch {
		case forward > reverse:
			transfers = append(transfers, Transfer{
				From:   key.participant,
				To:     key.payer,
				Amount: forward - reverse,
			})
		case reverse > forward:
			transfers = append(transfers, Transfer{
				From:   key.payer,
				To:     key.participant,
				Amount: reverse - forward,
			})
		default:
			// Equal totals cancel completely; nothing to emit.
		}
	}
	return transfers
}
