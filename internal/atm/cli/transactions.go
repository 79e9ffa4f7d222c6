package cli

import (
	"context"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
)

const transactionMenu = `[1] deposit
[2] withdraw
[3] transfer`

// Transaction asks for the kind of transaction and runs it.
func (a *App) Transaction(ctx context.Context) error {
	kind, err := a.prompt(transactionMenu)
	if err != nil {
		return err
	}

	switch kind {
	case "1", "deposit":
		return a.deposit(ctx)
	case "2", "withdraw":
		return a.withdraw(ctx)
	case "3", "transfer":
		return a.transfer(ctx)
	default:
		printlnFn("Unknown transaction:", kind)
		return nil
	}
}

func (a *App) deposit(ctx context.Context) error {
	id, err := a.prompt("Account id")
	if err != nil {
		return err
	}
	amount, err := a.promptAmount("Amount to deposit")
	if err != nil {
		return err
	}
	acc, err := a.engine.Deposit(ctx, id, amount)
	if err != nil {
		return err
	}
	printlnFn("New balance:", models.FormatAmount(acc.Balance))
	return nil
}

func (a *App) withdraw(ctx context.Context) error {
	id, err := a.prompt("Account id")
	if err != nil {
		return err
	}
	amount, err := a.promptAmount("Amount to withdraw")
	if err != nil {
		return err
	}
	acc, err := a.engine.Withdraw(ctx, id, amount, a.session.User)
	if err != nil {
		return err
	}
	printlnFn("New balance:", models.FormatAmount(acc.Balance))
	return nil
}

func (a *App) transfer(ctx context.Context) error {
	from, err := a.prompt("From account id")
	if err != nil {
		return err
	}
	to, err := a.prompt("To account id")
	if err != nil {
		return err
	}
	amount, err := a.promptAmount("Amount to transfer")
	if err != nil {
		return err
	}
	if err := a.engine.Transfer(ctx, from, to, amount, a.session.User); err != nil {
		return err
	}
	printlnFn("Transferred", models.FormatAmount(amount))
	return nil
}
