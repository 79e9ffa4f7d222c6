// Package accounts persists the account ledger. Balances are integer minor
// units and never go negative: Debit only succeeds when the stored balance
// covers the amount, and the schema enforces the same with a CHECK.
package accounts
