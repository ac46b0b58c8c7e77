package fiscal

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// QUARTER - One of the four register periods in a fiscal year
// =============================================================================

type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Quarters lists the quarters in register order.
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

func (q Quarter) Valid() bool {
	switch q {
	case Q1, Q2, Q3, Q4:
		return true
	}
	return false
}

// next returns the following quarter and whether the year wrapped.
func (q Quarter) next() (Quarter, bool) {
	switch q {
	case Q1:
		return Q2, false
	case Q2:
		return Q3, false
	case Q3:
		return Q4, false
	default:
		return Q1, true
	}
}

// =============================================================================
// PERIOD KEY - (fiscal year, quarter) identifier
// =============================================================================

// PeriodKey identifies one register period. Year is the fiscal year kept as
// an integer-valued string ("2024"); all per-period state is keyed by the
// serialized "<year>-<quarter>" form.
type PeriodKey struct {
	Year    string
	Quarter Quarter
}

func NewPeriodKey(year int, quarter Quarter) PeriodKey {
	return PeriodKey{Year: strconv.Itoa(year), Quarter: quarter}
}

// ParsePeriodKey parses the canonical "<year>-<quarter>" form.
func ParsePeriodKey(s string) (PeriodKey, error) {
	year, quarter, ok := strings.Cut(s, "-")
	if !ok {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, s)
	}
	k := PeriodKey{Year: year, Quarter: Quarter(quarter)}
	if !k.Valid() {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, s)
	}
	return k, nil
}

func (k PeriodKey) Valid() bool {
	if !k.Quarter.Valid() {
		return false
	}
	y, err := strconv.Atoi(k.Year)
	return err == nil && y > 0
}

func (k PeriodKey) YearInt() int {
	y, _ := strconv.Atoi(k.Year)
	return y
}

func (k PeriodKey) String() string {
	return k.Year + "-" + string(k.Quarter)
}

// Next returns the sequentially following period: Q1→Q2→Q3→Q4 within the
// same year, and Q4 of year Y into Q1 of year Y+1. This is the adjacency the
// carry-forward rule walks; it is forward-only.
func (k PeriodKey) Next() PeriodKey {
	q, wrapped := k.Quarter.next()
	year := k.Year
	if wrapped {
		year = strconv.Itoa(k.YearInt() + 1)
	}
	return PeriodKey{Year: year, Quarter: q}
}
