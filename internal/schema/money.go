package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is always carried in minor units as returned by the pricing API.
type Money struct {
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
}

var currencySymbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "$",
}

func (m Money) IsZero() bool {
	return m.AmountMinor == 0
}

// Display formats the amount for humans, e.g. £1,250.50.
func (m Money) Display() string {
	amount := m.AmountMinor
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	prefix, ok := currencySymbols[strings.ToUpper(m.Currency)]
	if !ok {
		prefix = strings.ToUpper(m.Currency) + " "
	}

	return fmt.Sprintf("%s%s%s.%02d", sign, prefix, groupThousands(amount/100), amount%100)
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
