package dashboard

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount in cents as US dollars, e.g. "$1,234.56".
func FormatCurrency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "$" + printer.Sprintf("%.2f", CentsToAmount(cents))
}

func CentsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// AmountToCents rounds to the nearest cent, so 49.95 becomes 4995 rather
// than 4994.
func AmountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
