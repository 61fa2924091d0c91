package rates

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Convert expresses an amount denominated in fromCurrency in the base
// currency, using the given snapshot. The ok result is false when no rate is
// available; callers must exclude such amounts rather than treating them as
// zero.
//
// Snapshot rates are units of fromCurrency per one unit of the base, so the
// conversion divides rather than multiplies: with base USD and
// rates["EUR"] = 0.92, 10 EUR converts to 10 / 0.92 USD.
func Convert(amount float64, fromCurrency string, snapshot *Snapshot, baseCurrency string) (float64, bool) {
	if fromCurrency == baseCurrency {
		return amount, true
	}
	if snapshot == nil {
		return 0, false
	}
	rate, found := snapshot.Rates[fromCurrency]
	if !found || rate == 0 {
		return 0, false
	}
	return amount / rate, true
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a monetary amount for display: currency symbol
// followed by the grouped two-decimal value. Codes that are not recognized
// ISO 4217 currencies fall back to a plain "CODE 0.00" form.
func FormatAmount(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", strings.ToUpper(code), amount)
	}
	symbol := amountPrinter.Sprint(currency.Symbol(unit))
	return symbol + amountPrinter.Sprintf("%.2f", amount)
}
