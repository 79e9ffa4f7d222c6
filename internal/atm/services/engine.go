package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/atm/storage"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

// TransactionEngine moves money. Anyone may deposit into any account;
// withdrawals and transfer sources require the requester to own the account.
type TransactionEngine struct {
	store *storage.Storage
	log   logging.Logger
	now   func() time.Time
	newID func() string
}

func NewTransactionEngine(store *storage.Storage, log logging.Logger) *TransactionEngine {
	return &TransactionEngine{
		store: store,
		log:   log.With("component", "engine"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (e *TransactionEngine) record(accountID string, kind models.TransactionKind, dir models.Direction, amount int64, counter, actor string) *models.Transaction {
	return &models.Transaction{
		ID:        e.newID(),
		AccountID: accountID,
		Kind:      kind,
		Direction: dir,
		Amount:    amount,
		CounterID: counter,
		Actor:     actor,
		CreatedAt: e.now().UTC(),
	}
}

// credit adds amount to id, refusing to overflow the balance.
func credit(ctx context.Context, u storage.Unit, id string, amount int64) error {
	acc, err := u.Accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if acc.Balance > math.MaxInt64-amount {
		return common.ErrInvalidAmount
	}
	return u.Accounts.Credit(ctx, id, amount)
}

// Deposit adds amount to the account and returns it updated.
func (e *TransactionEngine) Deposit(ctx context.Context, accountID string, amount int64) (acc models.Account, err error) {
	defer logResult(ctx, e.log, "deposit", &err, "account_id", accountID, "amount", amount)

	if amount <= 0 {
		return models.Account{}, common.ErrInvalidAmount
	}

	err = e.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		if err := credit(ctx, u, accountID, amount); err != nil {
			return err
		}
		if err := u.Journal.Append(ctx, e.record(accountID, models.KindDeposit, models.DirectionIn, amount, "", "")); err != nil {
			return err
		}
		if err := checkLinked(ctx, u, accountID); err != nil {
			return err
		}
		updated, err := u.Accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		acc = *updated
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

// Withdraw takes amount from an account owned by requester.
func (e *TransactionEngine) Withdraw(ctx context.Context, accountID string, amount int64, requester string) (acc models.Account, err error) {
	defer logResult(ctx, e.log, "withdraw", &err, "account_id", accountID, "amount", amount, "requester", requester)

	if amount <= 0 {
		return models.Account{}, common.ErrInvalidAmount
	}

	err = e.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		if _, err := ownedAccount(ctx, u, accountID, requester); err != nil {
			return err
		}
		if err := u.Accounts.Debit(ctx, accountID, amount); err != nil {
			return err
		}
		if err := u.Journal.Append(ctx, e.record(accountID, models.KindWithdraw, models.DirectionOut, amount, "", requester)); err != nil {
			return err
		}
		if err := checkLinked(ctx, u, accountID); err != nil {
			return err
		}
		updated, err := u.Accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		acc = *updated
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

// Transfer withdraws amount from fromID and deposits it into toID in one
// transaction. Either both balances change or neither does.
func (e *TransactionEngine) Transfer(ctx context.Context, fromID, toID string, amount int64, requester string) (err error) {
	defer logResult(ctx, e.log, "transfer", &err, "from", fromID, "to", toID, "amount", amount, "requester", requester)

	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if fromID == toID {
		return common.ErrSameAccount
	}

	return e.store.Write(ctx, func(ctx context.Context, u storage.Unit) error {
		src, err := ownedAccount(ctx, u, fromID, requester)
		if err != nil {
			return err
		}
		if src.Balance < amount {
			return common.ErrInsufficientFunds
		}
		if err := u.Accounts.Debit(ctx, fromID, amount); err != nil {
			return err
		}
		if err := credit(ctx, u, toID, amount); err != nil {
			return err
		}
		if err := u.Journal.Append(ctx, e.record(fromID, models.KindTransfer, models.DirectionOut, amount, toID, requester)); err != nil {
			return err
		}
		if err := u.Journal.Append(ctx, e.record(toID, models.KindTransfer, models.DirectionIn, amount, fromID, requester)); err != nil {
			return err
		}
		if err := checkLinked(ctx, u, fromID); err != nil {
			return err
		}
		return checkLinked(ctx, u, toID)
	})
}
