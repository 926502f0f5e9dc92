package reconcile

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// money renders v as "$1,234.50", with a leading "-" for negatives.
func money(v float64) string {
	p := message.NewPrinter(language.English)
	if v < 0 {
		return p.Sprintf("-$%.2f", math.Abs(v))
	}
	return p.Sprintf("$%.2f", v)
}

// signedMoney renders v as "+$1,234.50" or "-$1,234.50".
func signedMoney(v float64) string {
	if v < 0 {
		return money(v)
	}
	return "+" + money(v)
}

func percent(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f%%", v)
}
