package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Quantity is a token amount stored as an int64 scaled by 10^de
type Quantity struct {
	q  int64
	de uint8
}

var (
	minInt64 = big.NewInt(-1 << 63)
	maxInt64 = big.NewInt(1<<63 - 1)
)

func pow10(de uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(de)), nil)
}

func checkDecimals(de uint8) error {
	if de > MAX_DECIMALS {
		return fmt.Errorf("%w: precision %d exceeds %d decimal places", ErrOutOfRange, de, MAX_DECIMALS)
	}
	return nil
}

func fromBig(v *big.Int, de uint8) (Quantity, error) {
	if v.Cmp(minInt64) < 0 || v.Cmp(maxInt64) > 0 {
		return Quantity{}, fmt.Errorf("%w: scaled value %s with precision %d", ErrOutOfRange, v.String(), de)
	}
	return Quantity{q: v.Int64(), de: de}, nil
}

// NewQuantity builds a quantity from an already scaled integer
func NewQuantity(scaled int64, de uint8) (Quantity, error) {
	if err := checkDecimals(de); err != nil {
		return Quantity{}, err
	}
	return Quantity{q: scaled, de: de}, nil
}

// QuantityFromUnits builds a quantity from a whole number of token units
func QuantityFromUnits(units int64, de uint8) (Quantity, error) {
	if err := checkDecimals(de); err != nil {
		return Quantity{}, err
	}
	return fromBig(new(big.Int).Mul(big.NewInt(units), pow10(de)), de)
}

// QuantityFromDecimal builds a quantity from a decimal value rounded to de places
func QuantityFromDecimal(v decimal.Decimal, de uint8) (Quantity, error) {
	if err := checkDecimals(de); err != nil {
		return Quantity{}, err
	}
	scaled := v.Shift(int32(de)).Round(0)
	return fromBig(scaled.BigInt(), de)
}

// Scaled returns the internal scaled integer
func (q Quantity) Scaled() int64 {
	return q.q
}

// Decimals returns the precision of the quantity
func (q Quantity) Decimals() uint8 {
	return q.de
}

// Decimal returns the public value q / 10^de
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.New(q.q, -int32(q.de))
}

// String renders the value with exactly de decimal places
func (q Quantity) String() string {
	return q.Decimal().StringFixed(int32(q.de))
}

// IsZero reports whether the quantity is zero
func (q Quantity) IsZero() bool {
	return q.q == 0
}

// Sign returns -1, 0 or 1
func (q Quantity) Sign() int {
	switch {
	case q.q < 0:
		return -1
	case q.q > 0:
		return 1
	}
	return 0
}

// IsWhole reports whether the value has no fractional part
func (q Quantity) IsWhole() bool {
	return new(big.Int).Mod(big.NewInt(q.q), pow10(q.de)).Sign() == 0
}

// align rescales o to the precision of q
func (q Quantity) align(o Quantity) (*big.Int, error) {
	if o.de == q.de {
		return big.NewInt(o.q), nil
	}
	r, err := QuantityFromDecimal(o.Decimal(), q.de)
	if err != nil {
		return nil, err
	}
	return big.NewInt(r.q), nil
}

// Cmp compares the public values of two quantities
func (q Quantity) Cmp(o Quantity) int {
	if q.de == o.de {
		switch {
		case q.q < o.q:
			return -1
		case q.q > o.q:
			return 1
		}
		return 0
	}
	return q.Decimal().Cmp(o.Decimal())
}

// Add returns q + o at the precision of q
func (q Quantity) Add(o Quantity) (Quantity, error) {
	b, err := q.align(o)
	if err != nil {
		return Quantity{}, err
	}
	return fromBig(new(big.Int).Add(big.NewInt(q.q), b), q.de)
}

// Sub returns q - o at the precision of q
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	b, err := q.align(o)
	if err != nil {
		return Quantity{}, err
	}
	return fromBig(new(big.Int).Sub(big.NewInt(q.q), b), q.de)
}

// Mul returns q * o at the precision of q, truncated toward zero
func (q Quantity) Mul(o Quantity) (Quantity, error) {
	b, err := q.align(o)
	if err != nil {
		return Quantity{}, err
	}
	v := new(big.Int).Mul(big.NewInt(q.q), b)
	return fromBig(v.Quo(v, pow10(q.de)), q.de)
}

// Div returns q / o at the precision of q, truncated toward zero
func (q Quantity) Div(o Quantity) (Quantity, error) {
	b, err := q.align(o)
	if err != nil {
		return Quantity{}, err
	}
	if b.Sign() == 0 {
		return Quantity{}, fmt.Errorf("%w: division by zero", ErrOutOfRange)
	}
	v := new(big.Int).Mul(big.NewInt(q.q), pow10(q.de))
	return fromBig(v.Quo(v, b), q.de)
}

// Mod returns the remainder of q / o, with the sign of q
func (q Quantity) Mod(o Quantity) (Quantity, error) {
	b, err := q.align(o)
	if err != nil {
		return Quantity{}, err
	}
	if b.Sign() == 0 {
		return Quantity{}, fmt.Errorf("%w: modulo by zero", ErrOutOfRange)
	}
	return fromBig(new(big.Int).Rem(big.NewInt(q.q), b), q.de)
}

// Pow returns q^n at the precision of q, truncated toward zero
func (q Quantity) Pow(n uint) (Quantity, error) {
	if n == 0 {
		return fromBig(pow10(q.de), q.de)
	}
	v := new(big.Int).Exp(big.NewInt(q.q), big.NewInt(int64(n)), nil)
	scale := new(big.Int).Exp(pow10(q.de), big.NewInt(int64(n-1)), nil)
	return fromBig(v.Quo(v, scale), q.de)
}
