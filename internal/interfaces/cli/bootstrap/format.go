package bootstrap

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators and two
// decimals, without going through float64.
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Abs().Round(2)
	_, frac, _ := strings.Cut(rounded.StringFixed(2), ".")
	whole := rounded.IntPart()

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + printer.Sprintf("%d", whole) + "." + frac
}
