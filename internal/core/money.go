// Package core holds the ledger domain types and the currency text codec.
//
// Amounts travel through the system as int64 minor units (cents). The codec
// in this file converts between those and the localized display strings the
// client types and reads: dot for thousands grouping, comma for decimals,
// at most two decimal digits.
package core

import (
	"math"
	"strconv"
	"strings"
)

// MajorUnits returns the major-unit value of an amount in cents. Display
// only; calculations stay in minor units.
func MajorUnits(cents int64) float64 {
	return float64(cents) / 100.0
}

// ToMinorUnits converts a major-unit value to cents, rounding half away
// from zero (12.345 -> 1235, -12.345 -> -1235).
func ToMinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

// FormatAsTyped normalizes a raw amount input on every keystroke. It keeps
// digits and the first decimal comma, folds any further commas into the
// fractional part, regroups thousands with dots and truncates the fraction
// to two digits. Pure and total: any input yields a string, never an error.
//
// Examples:
//
//	FormatAsTyped("3000,5")  -> "3.000,5"
//	FormatAsTyped("1234567") -> "1.234.567"
//	FormatAsTyped("12,345")  -> "12,34"
func FormatAsTyped(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	// Extra decimal separators are concatenated into the fraction rather
	// than dropped ("1,2,3" -> "1,23").
	if parts := strings.Split(s, ","); len(parts) > 2 {
		s = parts[0] + "," + strings.Join(parts[1:], "")
	}

	intPart, fracPart, hasComma := strings.Cut(s, ",")
	grouped := groupThousands(intPart)
	if !hasComma {
		return grouped
	}
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	return grouped + "," + fracPart
}

// ParseToMajorUnits parses a localized display string back into a
// major-unit value. Group dots are stripped and the decimal comma is
// canonicalized. Empty or unparseable input yields 0; this never errors.
func ParseToMajorUnits(s string) float64 {
	if s == "" {
		return 0
	}
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.Replace(clean, ",", ".", 1)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatForDisplay renders a major-unit value with grouped thousands and a
// fixed two-digit fraction, e.g. 3000.5 -> "3.000,50". Used for read-only
// contexts such as confirmations and error messages.
func FormatForDisplay(major float64) string {
	cents := ToMinorUnits(major)
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	frac := cents % 100
	s := groupThousands(whole) + "," + twoDigits(frac)
	if neg {
		return "-" + s
	}
	return s
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func twoDigits(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}
