package email

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.BritishEnglish)

// FormatMoney renders an amount in minor units with the currency symbol.
// Unknown currency codes fall back to GBP.
func FormatMoney(minor int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.GBP
	}
	return moneyPrinter.Sprint(currency.NarrowSymbol(unit.Amount(majorUnits(minor, unit))))
}

// majorUnits scales by the currency's own number of minor digits: 2 for GBP,
// 0 for JPY, 3 for KWD.
func majorUnits(minor int64, unit currency.Unit) float64 {
	scale, _ := currency.Standard.Rounding(unit)
	return float64(minor) / math.Pow10(scale)
}
