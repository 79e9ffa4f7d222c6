package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/common"
)

var errCancelled = errors.New("cancelled")

func accountTypeHint() string {
	names := make([]string, len(models.AccountTypes))
	for i, t := range models.AccountTypes {
		names[i] = string(t)
	}
	return strings.Join(names, "|")
}

// Create prompts for the opening balance, type, country, phone and any extra
// metadata, then opens the account for the operator.
func (a *App) Create(ctx context.Context) error {
	balance, err := a.promptAmount("Initial balance")
	if err != nil {
		return err
	}

	typ, err := a.prompt(fmt.Sprintf("Account type [%s] (empty for current)", accountTypeHint()))
	if err != nil {
		return err
	}
	accType, err := models.ParseAccountType(typ)
	if err != nil {
		return err
	}
	md := []models.Metadata{{Name: models.MetaType, Value: string(accType)}}

	for _, name := range []string{models.MetaCountry, models.MetaPhone} {
		v, err := a.prompt(fmt.Sprintf("%s (optional)", strings.ToUpper(name[:1])+name[1:]))
		if err != nil {
			return err
		}
		if v != "" {
			md = append(md, models.Metadata{Name: name, Value: v})
		}
	}

	extra, err := a.promptMetadata()
	if err != nil {
		return err
	}
	md = append(md, extra...)

	id, err := a.ledger.CreateAccount(ctx, a.session.User, balance, md)
	if err != nil {
		return err
	}
	printlnFn("Account created:", id)
	return nil
}

func (a *App) promptMetadata() ([]models.Metadata, error) {
	lines, err := getMetadata(a.reader, a.out)
	if err != nil {
		return nil, err
	}
	return models.MetadataFromString(lines)
}

// Update replaces the metadata of one of the operator's accounts.
func (a *App) Update(ctx context.Context) error {
	id, err := a.prompt("Account id")
	if err != nil {
		return err
	}
	md, err := a.promptMetadata()
	if err != nil {
		return err
	}
	if err := a.ledger.UpdateMetadata(ctx, id, a.session.User, md); err != nil {
		return err
	}
	printlnFn("Account updated")
	return nil
}

// ownAccount fetches id and refuses accounts of other users.
func (a *App) ownAccount(ctx context.Context, id string) (models.Account, error) {
	acc, err := a.ledger.GetAccount(ctx, id)
	if err != nil {
		return models.Account{}, err
	}
	if acc.Owner != a.session.User {
		return models.Account{}, common.ErrNotOwner
	}
	return acc, nil
}

// Check prints the details of one of the operator's accounts.
func (a *App) Check(ctx context.Context) error {
	id, err := a.prompt("Account id")
	if err != nil {
		return err
	}
	acc, err := a.ownAccount(ctx, id)
	if err != nil {
		return err
	}

	printlnFn("Account:  ", acc.ID)
	printlnFn("Owner:    ", acc.Owner)
	printlnFn("Type:     ", acc.Type())
	printlnFn("Created:  ", acc.CreatedAt.Local().Format(time.DateTime))
	printlnFn("Balance:  ", models.FormatAmount(acc.Balance))
	for _, m := range acc.Metadata {
		if m.Name == models.MetaType {
			continue
		}
		printlnFn(fmt.Sprintf("%-10s %s", m.Name+":", m.Value))
	}
	if interest := models.MonthlyInterest(acc); interest > 0 {
		printlnFn(fmt.Sprintf("You will get %s as interest every month", models.FormatAmount(interest)))
	} else {
		printlnFn("No interest is paid on this account")
	}
	return nil
}

// List prints every account the operator owns.
func (a *App) List(ctx context.Context) error {
	n := 0
	for acc, err := range a.ledger.ListAccountsForUser(ctx, a.session.User) {
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("%s  %-8s %12s", acc.ID, acc.Type(), models.FormatAmount(acc.Balance)))
		n++
	}
	if n == 0 {
		printlnFn("No accounts")
	}
	return nil
}

// Remove shows the account balance and closes the account after confirmation.
func (a *App) Remove(ctx context.Context) error {
	id, err := a.prompt("Account id")
	if err != nil {
		return err
	}
	acc, err := a.ownAccount(ctx, id)
	if err != nil {
		return err
	}

	answer, err := a.prompt(fmt.Sprintf("Account %s holds %s. Type yes to remove it",
		acc.ID, models.FormatAmount(acc.Balance)))
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		return errCancelled
	}

	if err := a.ledger.RemoveAccount(ctx, id, a.session.User); err != nil {
		return err
	}
	printlnFn("Account removed")
	return nil
}

// History prints the journal of one of the operator's accounts.
func (a *App) History(ctx context.Context) error {
	id, err := a.prompt("Account id")
	if err != nil {
		return err
	}
	records, err := a.ledger.History(ctx, id, a.session.User)
	if err != nil {
		return err
	}
	for _, r := range records {
		line := fmt.Sprintf("%4d  %s  %-9s %-3s %12s", r.Seq, r.CreatedAt.Local().Format(time.DateTime),
			r.Kind, r.Direction, models.FormatAmount(r.Amount))
		if r.CounterID != "" {
			line += "  " + r.CounterID
		}
		printlnFn(line)
	}
	return nil
}
