package models

import "time"

// UserRef identifies a user to the engine.
// ID is the only semantically meaningful field; DisplayName is a label used
// when rendering messages and is never compared or stored.
type UserRef struct {
	// ID is the opaque identity (for Discord groups, the user snowflake).
	ID string

	// DisplayName is the label shown in user-facing messages.
	DisplayName string
}

// Transaction is one persisted ledger record.
// Semantics: Participant owes Payer Amount units, because Payer covered
// Participant's share. Payer != Participant is enforced at insert time.
//
// Amount is accepted as given; the engine does not validate sign or
// magnitude.
type Transaction struct {
	// Payer is the id of the user who actually paid.
	Payer string `json:"payer"`

	// Participant is the id of the user whose share was covered.
	Participant string `json:"participant"`

	// Amount is the covered amount in whole currency units (yen).
	Amount int64 `json:"amount"`

	// Memo is a short human-entered title for the payment.
	Memo string `json:"memo"`

	// Date is when the record was inserted. Serialized as RFC 3339 for
	// round-trip fidelity.
	Date time.Time `json:"date"`
}

// Touches reports whether the transaction involves the given user id on
// either side.
func (t Transaction) Touches(userID string) bool {
	return t.Payer == userID || t.Participant == userID
}
