package money

import "strconv"

// FormatVND renders an amount of Vietnamese dong the way the storefront
// displays it: ₫ prefix, dot-separated thousands, no decimals.
// FormatVND(200000) == "₫200.000".
func FormatVND(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	s := "₫" + string(out)
	if neg {
		s = "-" + s
	}
	return s
}
