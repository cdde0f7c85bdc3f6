package folio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates Money from a value in major units and an ISO currency code.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ParseMoney parses a decimal string like "1250.40" into Money.
func ParseMoney(s, currency string) (Money, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: v, cur: currency}, nil
}

// IsCurrency reports whether code is a currency known to the formatter.
func IsCurrency(code string) bool { return money.GetCurrency(code) != nil }

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string                 { return m.cur }
func (m Money) Decimal() decimal.Decimal         { return m.value }
func (m Money) Equal(n Money) bool               { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                     { return m.value.IsZero() }
func (m Money) IsPositive() bool                 { return m.value.IsPositive() }
func (m Money) IsNegative() bool                 { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool       { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool         { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                       { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money             { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Scale(f decimal.Decimal) Money    { return Money{value: m.value.Mul(f), cur: m.cur} }
func (m Money) Round(places int32) Money         { return Money{value: m.value.Round(places), cur: m.cur} }
func (m Money) InCurrency(currency string) Money { return Money{value: m.value, cur: currency} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// AsFloat returns an approximation of the value, for display and tests only.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
