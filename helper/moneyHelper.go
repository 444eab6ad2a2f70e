package helper

import "fmt"

// FormatMinor renders an amount in minor currency units as a major-unit
// string, e.g. 3480 -> "34.80".
func FormatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
