// Package money holds the currency arithmetic shared by the simulator and the
// input/output layers. Amounts are float64 dollars rounded to cents after every step.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a string cannot be parsed as a currency amount.
var ErrInvalidAmount = errors.New("invalid amount")

// zeroTolerance is the 4 decimal place band treated as zero.
const zeroTolerance = 0.0001

// Round rounds x to cents, halves away from zero.
func Round(x float64) float64 {
	return math.Round(x*100) / 100
}

// IsZero reports whether x equals zero to 4 decimal places.
func IsZero(x float64) bool {
	return math.Abs(x) < zeroTolerance
}

// Parse converts user input such as "$1,234.56" into a rounded amount.
func Parse(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "_", "")

	negative := false
	if strings.HasPrefix(cleaned, "-") {
		negative = true
		cleaned = cleaned[1:]
	}
	cleaned = strings.TrimPrefix(cleaned, "$")

	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if negative {
		d = d.Neg()
	}

	return d.Round(2).InexactFloat64(), nil
}

// ParseRate parses a rate without rounding it to cents. Rates such as 0.00625
// need every digit.
func ParseRate(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: rate %q", ErrInvalidAmount, s)
	}
	return d.InexactFloat64(), nil
}

// Format renders x as "$1,234.56".
func Format(x float64) string {
	d := decimal.NewFromFloat(Round(x))
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + cents
}
