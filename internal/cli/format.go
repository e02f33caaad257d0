// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a configured currency code is unknown.
const DefaultCurrency = money.USD

// FormatMoney formats an amount in the given ISO currency, e.g. "$1,234.50".
// Unknown codes fall back to USD.
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// FormatMoneyFloat is FormatMoney for a float amount from a JSON payload.
func FormatMoneyFloat(amount float64, code string) string {
	return FormatMoney(decimal.NewFromFloat(amount), code)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 rate as a percentage string, trimming zeros.
// e.g., 0.1 -> "10%", 0.225 -> "22.5%"
func FormatPercent(f float64) string {
	s := strconv.FormatFloat(f*100, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "%"
}

// FormatThreshold formats a bracket threshold with thousands separators.
func FormatThreshold(v float64) string {
	d := decimal.NewFromFloat(v)
	whole := FormatNumber(d.IntPart())
	frac := d.Sub(decimal.NewFromInt(d.IntPart()))
	if frac.IsZero() {
		return whole
	}
	return whole + strings.TrimPrefix(frac.StringFixed(2), "0")
}

// MaskToken shortens a credential for display.
func MaskToken(tok string) string {
	if len(tok) > 16 {
		return tok[:8] + "..." + tok[len(tok)-4:]
	}
	if len(tok) > 4 {
		return tok[:4] + "..."
	}
	if tok == "" {
		return ""
	}
	return "****"
}

// FormatValue renders a JSONPath lookup result as plain text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
