package types

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ErrMalformedNumeric signals a price or amount that could not be coerced
// to a number. Callers must reject the mutation rather than let a bad
// value reach arithmetic.
var ErrMalformedNumeric = errors.New("malformed numeric value")

// Money is a decimal amount that tolerates the loose encodings found in
// stored documents and client payloads: JSON numbers, numeric strings,
// and the BSON numeric types all coerce into it. Anything else fails
// with ErrMalformedNumeric.
type Money struct {
	dec decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{dec: d}
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformedNumeric, s)
	}
	return Money{dec: d}, nil
}

func MoneyFromInt(n int64) Money {
	return Money{dec: decimal.NewFromInt(n)}
}

func MoneyFromFloat(f float64) Money {
	return Money{dec: decimal.NewFromFloat(f)}
}

func (m Money) Decimal() decimal.Decimal {
	return m.dec
}

func (m Money) String() string {
	return m.dec.String()
}

func (m Money) Add(other Money) Money {
	return Money{dec: m.dec.Add(other.dec)}
}

func (m Money) MulInt(n int64) Money {
	return Money{dec: m.dec.Mul(decimal.NewFromInt(n))}
}

func (m Money) Equal(other Money) bool {
	return m.dec.Equal(other.dec)
}

func (m Money) IsZero() bool {
	return m.dec.IsZero()
}

func (m Money) IsNegative() bool {
	return m.dec.IsNegative()
}

// MarshalJSON emits a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.dec.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		m.dec = decimal.Decimal{}
		return nil
	}
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedNumeric, string(data))
	}
	m.dec = d
	return nil
}

// MarshalBSONValue stores the amount as a canonical decimal string.
func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(m.dec.String())
}

// UnmarshalBSONValue coerces string and numeric BSON values.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		m.dec = decimal.Decimal{}
		return nil
	case bsontype.String:
		s, ok := rv.StringValueOK()
		if !ok {
			return fmt.Errorf("%w: invalid bson string", ErrMalformedNumeric)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMalformedNumeric, s)
		}
		m.dec = d
		return nil
	case bsontype.Double:
		f, ok := rv.DoubleOK()
		if !ok {
			return fmt.Errorf("%w: invalid bson double", ErrMalformedNumeric)
		}
		m.dec = decimal.NewFromFloat(f)
		return nil
	case bsontype.Int32:
		n, ok := rv.Int32OK()
		if !ok {
			return fmt.Errorf("%w: invalid bson int32", ErrMalformedNumeric)
		}
		m.dec = decimal.NewFromInt32(n)
		return nil
	case bsontype.Int64:
		n, ok := rv.Int64OK()
		if !ok {
			return fmt.Errorf("%w: invalid bson int64", ErrMalformedNumeric)
		}
		m.dec = decimal.NewFromInt(n)
		return nil
	default:
		return fmt.Errorf("%w: unsupported bson type %s", ErrMalformedNumeric, t)
	}
}
