package proposal

import "github.com/shopspring/decimal"

// CurrencyPrefix is the symbol prepended to every rendered amount.
const CurrencyPrefix = "$"

// FormatMoney renders an amount to exactly two decimal places with the
// currency prefix and no digit grouping, e.g. "$1234.50".
func FormatMoney(d decimal.Decimal) string {
	return CurrencyPrefix + d.StringFixed(2)
}
