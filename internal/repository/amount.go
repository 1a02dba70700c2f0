package repository

import (
	"strings"

	"github.com/shopspring/decimal"
)

// amount is a numeric field that may be written as a JSON number, a quoted
// string, or a YAML scalar. Decoding keeps the literal text so no precision
// is lost before it becomes a decimal.
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = ""
		return nil
	}
	*a = amount(strings.Trim(s, `"`))
	return nil
}

func (a amount) present() bool { return strings.TrimSpace(string(a)) != "" }

func (a amount) decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(string(a)))
}

func (a amount) nullDecimal() (decimal.NullDecimal, error) {
	if !a.present() {
		return decimal.NullDecimal{}, nil
	}
	d, err := a.decimal()
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
