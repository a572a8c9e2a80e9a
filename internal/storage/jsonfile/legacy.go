package jsonfile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/warikan/internal/models"
)

// record is the on-disk transaction shape, loose enough to accept the
// legacy variants that predate the current schema:
//
//   - records written before memos existed have no "memo" field
//   - records written before typed dates have no "date" field
//   - the oldest files hold {payer, participants: [...], amount}, one record
//     covering several participants at once
type record struct {
	Payer        string     `json:"payer"`
	Participant  string     `json:"participant"`
	Participants []string   `json:"participants"`
	Amount       *float64   `json:"amount"`
	Memo         *string    `json:"memo"`
	Date         *time.Time `json:"date"`
}

// decodeLedger parses a ledger file into transactions, upgrading legacy
// records in place. Content that fits no recognized shape is an error.
func decodeLedger(data []byte) ([]models.Transaction, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	transactions := make([]models.Transaction, 0, len(records))
	for i, rec := range records {
		upgraded, err := rec.upgrade()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		transactions = append(transactions, upgraded...)
	}
	return transactions, nil
}

// upgrade coerces one on-disk record into current-schema transactions.
func (r record) upgrade() ([]models.Transaction, error) {
	if r.Payer == "" {
		return nil, fmt.Errorf("missing payer")
	}
	if r.Amount == nil {
		return nil, fmt.Errorf("missing amount")
	}

	memo := ""
	if r.Memo != nil {
		memo = *r.Memo
	}
	var date time.Time
	if r.Date != nil {
		date = *r.Date
	}

	if r.Participant != "" {
		return []models.Transaction{{
			Payer:       r.Payer,
			Participant: r.Participant,
			Amount:      int64(*r.Amount),
			Memo:        memo,
			Date:        date,
		}}, nil
	}

	// Oldest shape: one record covering several participants. Fan out into
	// one transaction per participant, each owing an even per-head share of
	// the recorded amount; the payer's own share is not owed.
	if len(r.Participants) == 0 {
		return nil, fmt.Errorf("missing participant")
	}
	share := int64(*r.Amount) / int64(len(r.Participants))
	var transactions []models.Transaction
	for _, participant := range r.Participants {
		if participant == r.Payer {
			continue
		}
		transactions = append(transactions, models.Transaction{
			Payer:       r.Payer,
			Participant: participant,
			Amount:      share,
			Memo:        memo,
			Date:        date,
		})
	}
	return transactions, nil
}
