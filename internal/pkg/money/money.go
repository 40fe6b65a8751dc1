// Package money renders peso amounts the way the API has always shown them:
// a quoted string with exactly two decimal places.
package money

import (
	"github.com/shopspring/decimal"
)

// Amount wraps decimal.Decimal so the arithmetic and comparison methods stay
// available; only the JSON encoding changes. Decoding accepts anything
// decimal.Decimal accepts.
type Amount struct {
	decimal.Decimal
}

func New(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// NewPtr maps nil to nil.
func NewPtr(d *decimal.Decimal) *Amount {
	if d == nil {
		return nil
	}
	a := New(*d)
	return &a
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.StringFixed(2) + `"`), nil
}
