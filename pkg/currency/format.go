package currency

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var displayLocales = []language.Tag{
	language.English,
	language.Arabic,
}

var localeMatcher = language.NewMatcher(displayLocales)

// symbols maps each currency to its English and Arabic display symbol.
var symbols = map[Code][2]string{
	KWD: {"KD", "د.ك"},
	USD: {"$", "$"},
	EUR: {"€", "€"},
	GBP: {"£", "£"},
	SAR: {"SAR", "ر.س"},
	AED: {"AED", "د.إ"},
	QAR: {"QAR", "ر.ق"},
	BHD: {"BHD", "د.ب"},
	OMR: {"OMR", "ر.ع"},
}

// Format renders an amount with the currency's conventional precision and the
// locale's digit and separator rules. Arabic locales render Arabic-Indic
// digits with the symbol trailing; everything else leads with the symbol.
func Format(amount decimal.Decimal, code Code, locale string) string {
	if _, ok := rates[code]; !ok {
		code = Canonical
	}

	tag, arabic := matchLocale(locale)
	printer := message.NewPrinter(tag)
	digits := localizeAmount(printer, amount.Round(Exponent(code)), int(Exponent(code)))

	symbol := symbolFor(code, arabic)
	if arabic {
		return digits + " " + symbol
	}
	return symbol + " " + digits
}

// localizeAmount renders the rounded amount digit-exactly. The integer part
// goes to x/text as an integer, so amounts far beyond float64 precision keep
// their digits; only the sub-unit fraction rides a float64, where values of
// the form n/10^exp with n < 10^exp survive the round trip at this scale.
func localizeAmount(printer *message.Printer, rounded decimal.Decimal, exp int) string {
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	intPart := rounded.Truncate(0)
	var integer string
	if bi := intPart.BigInt(); bi.IsUint64() {
		integer = printer.Sprintf("%v", number.Decimal(bi.Uint64(), number.Scale(0)))
	} else {
		integer = intPart.String()
	}
	if exp == 0 {
		return sign + integer
	}

	fracUnits := rounded.Sub(intPart).Shift(int32(exp)).IntPart()
	frac := printer.Sprintf("%v", number.Decimal(float64(fracUnits)/math.Pow10(exp), number.Scale(exp)))
	// The fraction renders as a localized zero, the separator, then the
	// digits; drop that leading zero.
	runes := []rune(frac)
	return sign + integer + string(runes[1:])
}

func symbolFor(code Code, arabic bool) string {
	pair, ok := symbols[code]
	if !ok {
		return string(code)
	}
	if arabic {
		return pair[1]
	}
	return pair[0]
}

func matchLocale(locale string) (language.Tag, bool) {
	parsed, err := language.Parse(locale)
	if err != nil {
		return language.English, false
	}
	tag, _, _ := localeMatcher.Match(parsed)
	base, _ := tag.Base()
	arabicBase, _ := language.Arabic.Base()
	return tag, base == arabicBase
}
