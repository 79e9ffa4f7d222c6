package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/common"
)

// Account is a ledger record. Balance is held in minor currency units.
type Account struct {
	ID        string     `json:"id"`
	Owner     string     `json:"owner"`
	Balance   int64      `json:"balance"`
	Metadata  []Metadata `json:"metadata"`
	CreatedAt time.Time  `json:"created_at"`
}

// AccountType classifies an account for interest purposes.
type AccountType string

const (
	AccountTypeCurrent AccountType = "current"
	AccountTypeSavings AccountType = "savings"
	AccountTypeFixed01 AccountType = "fixed01"
	AccountTypeFixed02 AccountType = "fixed02"
	AccountTypeFixed03 AccountType = "fixed03"
)

// AccountTypes lists the recognised values of the "type" metadata entry.
var AccountTypes = []AccountType{
	AccountTypeCurrent,
	AccountTypeSavings,
	AccountTypeFixed01,
	AccountTypeFixed02,
	AccountTypeFixed03,
}

// ParseAccountType accepts a known type name in any case. Empty input means current.
func ParseAccountType(s string) (AccountType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AccountTypeCurrent, nil
	}
	for _, t := range AccountTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown account type %q: %w", s, common.ErrIncorrectMetadata)
}

// Well-known metadata names.
const (
	MetaType    = "type"
	MetaCountry = "country"
	MetaPhone   = "phone"
)

// Metadata is a free-form name=value attribute of an account.
type Metadata struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MetadataFromString parses "name=value" lines. Names and values are trimmed;
// an empty name or a line without exactly one '=' is rejected.
func MetadataFromString(lines []string) ([]Metadata, error) {
	md := make([]Metadata, 0, len(lines))
	for _, line := range lines {
		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			return nil, common.ErrIncorrectMetadata
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			return nil, common.ErrIncorrectMetadata
		}
		md = append(md, Metadata{Name: name, Value: strings.TrimSpace(parts[1])})
	}
	return md, nil
}

// ValidateMetadata rejects a metadata set with more than one type entry or
// with a type that ParseAccountType does not know.
func ValidateMetadata(md []Metadata) error {
	seen := false
	for _, m := range md {
		if m.Name != MetaType {
			continue
		}
		if seen {
			return fmt.Errorf("duplicate %q entry: %w", MetaType, common.ErrIncorrectMetadata)
		}
		seen = true
		if _, err := ParseAccountType(m.Value); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the value of the first attribute called name.
func (a Account) Lookup(name string) (string, bool) {
	for _, m := range a.Metadata {
		if m.Name == name {
			return m.Value, true
		}
	}
	return "", false
}

// Type returns the account type recorded in metadata, defaulting to current.
func (a Account) Type() AccountType {
	v, ok := a.Lookup(MetaType)
	if !ok || v == "" {
		return AccountTypeCurrent
	}
	return AccountType(strings.ToLower(v))
}
