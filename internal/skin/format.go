package skin

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"USD": "US$",
	"PEN": "S/",
	"EUR": "€",
	"GBP": "£",
}

// FormatPrice renders a whole-unit amount with thousands separators and a
// currency symbol. A zero amount reads as "Price on request".
func FormatPrice(amount int64, currency string) string {
	if amount <= 0 {
		return "Price on request"
	}
	code := strings.ToUpper(strings.TrimSpace(currency))
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code
	}
	n := printer.Sprintf("%d", amount)
	if symbol == "" {
		return n
	}
	return symbol + " " + n
}

// FormatArea renders an area in square metres.
func FormatArea(m2 int) string {
	if m2 <= 0 {
		return "–"
	}
	return printer.Sprintf("%d m²", m2)
}
