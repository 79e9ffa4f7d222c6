package models

import "time"

// TransactionKind names the operation a journal record was written for.
type TransactionKind string

const (
	KindOpen      TransactionKind = "open"
	KindDeposit   TransactionKind = "deposit"
	KindWithdraw  TransactionKind = "withdraw"
	KindTransfer  TransactionKind = "transfer"
	KindOwnership TransactionKind = "ownership"
	KindClose     TransactionKind = "close"
)

// Direction of money relative to the journal record's account.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
)

// Transaction is one append-only journal record. For transfers CounterID is
// the other account; for ownership changes it is the other user.
type Transaction struct {
	Seq       int64           `json:"seq"`
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Kind      TransactionKind `json:"kind"`
	Direction Direction       `json:"direction"`
	Amount    int64           `json:"amount"`
	CounterID string          `json:"counter_id"`
	Actor     string          `json:"actor"`
	CreatedAt time.Time       `json:"created_at"`
}
