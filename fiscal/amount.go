/*
Package fiscal provides the core primitives shared by the register and
budget engines.

PURPOSE:
  This package contains the building blocks every other package depends on:
  - Amount: a currency quantity with lenient parsing and display formatting
  - PeriodKey: the (fiscal year, quarter) identifier that partitions state
  - Sentinel errors and structured error types
  - The fire-and-forget audit recorder

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift
  2. Leniency at the boundary: malformed numeric input normalizes to zero,
     it never errors and never produces NaN downstream
  3. Type Safety: PeriodKey and Quarter are distinct types, not bare strings

USAGE:
  amt := fiscal.ParseAmount("1,000.50")   // 1000.50
  bad := fiscal.ParseAmount("abc")        // 0, no error
  key := fiscal.NewPeriodKey(2024, fiscal.Q1)
  key.Next()                              // 2024-Q2

SEE ALSO:
  - period.go: PeriodKey and quarter sequencing
  - errors.go: Error taxonomy
  - audit.go: Audit event recording
*/
package fiscal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Currency quantity
// =============================================================================

// Amount is a non-negative-by-convention currency quantity. The zero value
// is zero pesos and is ready to use.
type Amount struct {
	dec decimal.Decimal
}

func NewAmount(value float64) Amount {
	return Amount{dec: decimal.NewFromFloat(value)}
}

func AmountFromInt(value int64) Amount {
	return Amount{dec: decimal.NewFromInt(value)}
}

func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{dec: d}
}

func ZeroAmount() Amount {
	return Amount{}
}

// ParseAmount converts free-form user input into an Amount.
// Accepts comma-grouped figures ("1,000.50"), an optional peso/PHP prefix,
// and surrounding whitespace. Anything unparseable normalizes to zero:
// parse errors are never surfaced and never thrown.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₱")
	s = strings.TrimPrefix(s, "PHP")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}
	}
	return Amount{dec: d}
}

// Arithmetic
func (a Amount) Add(b Amount) Amount { return Amount{dec: a.dec.Add(b.dec)} }
func (a Amount) Sub(b Amount) Amount { return Amount{dec: a.dec.Sub(b.dec)} }
func (a Amount) Neg() Amount         { return Amount{dec: a.dec.Neg()} }

// Comparison
func (a Amount) IsZero() bool             { return a.dec.IsZero() }
func (a Amount) IsNegative() bool         { return a.dec.IsNegative() }
func (a Amount) IsPositive() bool         { return a.dec.IsPositive() }
func (a Amount) Equal(b Amount) bool      { return a.dec.Equal(b.dec) }
func (a Amount) GreaterThan(b Amount) bool { return a.dec.GreaterThan(b.dec) }
func (a Amount) LessThan(b Amount) bool    { return a.dec.LessThan(b.dec) }

// NonNegative clamps negative values to zero. Register and budget amounts
// are non-negative; the sign lives in the deposit/withdrawal split.
func (a Amount) NonNegative() Amount {
	if a.dec.IsNegative() {
		return Amount{}
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal { return a.dec }
func (a Amount) Float64() float64         { f, _ := a.dec.Float64(); return f }

// String returns the plain 2-decimal form, e.g. "1000.50".
func (a Amount) String() string {
	return a.dec.StringFixed(2)
}

// Display returns the locale-formatted form used in rendered documents:
// comma-grouped with 2 fraction digits, e.g. "1,234,567.80".
func (a Amount) Display() string {
	s := a.dec.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteString(fracPart)
	return b.String()
}

// =============================================================================
// JSON - Amounts travel as plain JSON numbers in persisted snapshots
// =============================================================================

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.dec.String()), nil
}

// UnmarshalJSON accepts numbers, quoted strings (with or without grouping),
// and null. Malformed values normalize to zero rather than failing the
// whole snapshot load.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		a.dec = decimal.Decimal{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*a = ParseAmount(s)
	return nil
}

// SumAmounts adds a slice of amounts. Convenience for the engines.
func SumAmounts(amounts []Amount) Amount {
	total := Amount{}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
