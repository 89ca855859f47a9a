package allocation

import (
	"encoding/json"
	"fmt"
	"math"
)

// NotAvailable is how a percentage with a zero denominator is shown
const NotAvailable = "N/A"

// Percentage is a share in [0,100] rounded to one decimal, or N/A.
// The zero value is N/A.
type Percentage struct {
	value float64
	valid bool
}

// NA returns the not-available sentinel
func NA() Percentage {
	return Percentage{}
}

// Ratio returns 100*filled/required rounded to one decimal place.
// required <= 0 yields N/A; the result is clamped to [0,100].
func Ratio(filled, required int) Percentage {
	if required <= 0 {
		return NA()
	}
	pct := 100 * float64(filled) / float64(required)
	pct = math.Max(0, math.Min(100, pct))
	return Percentage{value: math.Round(pct*10) / 10, valid: true}
}

// Value returns the percentage and whether it is defined
func (p Percentage) Value() (float64, bool) {
	return p.value, p.valid
}

// IsNA reports whether the denominator was zero
func (p Percentage) IsNA() bool {
	return !p.valid
}

// Fraction returns the value in [0,1] for progress bars; N/A counts as 0
func (p Percentage) Fraction() float64 {
	if !p.valid {
		return 0
	}
	return p.value / 100
}

// String renders "70.0%" or "N/A"
func (p Percentage) String() string {
	if !p.valid {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", p.value)
}

// Less orders percentages for display; N/A sorts below every defined value
func (p Percentage) Less(other Percentage) bool {
	if !p.valid {
		return other.valid
	}
	if !other.valid {
		return false
	}
	return p.value < other.value
}

// MarshalJSON encodes a number, or null for N/A
func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}
