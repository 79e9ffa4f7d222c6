package models

import (
	"math"
	"strings"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/shopspring/decimal"
)

// minorDigits is the number of decimal places of the ledger currency.
const minorDigits = 2

var maxMinor = decimal.NewFromInt(math.MaxInt64)

var annualRates = map[AccountType]decimal.Decimal{
	AccountTypeSavings: decimal.RequireFromString("0.07"),
	AccountTypeFixed01: decimal.RequireFromString("0.04"),
	AccountTypeFixed02: decimal.RequireFromString("0.05"),
	AccountTypeFixed03: decimal.RequireFromString("0.08"),
}

// ParseAmount converts user input such as "12.34" to minor units (1234).
// Negative values, more than two decimals and malformed input are rejected
// with ErrInvalidAmount. Zero is accepted; callers decide whether it is valid.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, common.ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, common.ErrInvalidAmount
	}
	minor := d.Shift(minorDigits)
	if !minor.IsInteger() || minor.GreaterThan(maxMinor) {
		return 0, common.ErrInvalidAmount
	}
	return minor.IntPart(), nil
}

// FormatAmount renders minor units as a fixed two-decimal string.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -minorDigits).StringFixed(minorDigits)
}

// AnnualRate returns the yearly interest rate of an account type.
func AnnualRate(t AccountType) decimal.Decimal {
	if r, ok := annualRates[t]; ok {
		return r
	}
	return decimal.Zero
}

// MonthlyInterest estimates one month of interest on the account balance,
// in minor units rounded half-up. Current accounts earn nothing.
func MonthlyInterest(a Account) int64 {
	rate := AnnualRate(a.Type())
	if rate.IsZero() {
		return 0
	}
	return decimal.NewFromInt(a.Balance).Mul(rate).Div(decimal.NewFromInt(12)).Round(0).IntPart()
}
