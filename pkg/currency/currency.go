package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 currency code the storefront can display.
type Code string

const (
	KWD Code = "KWD"
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	SAR Code = "SAR"
	AED Code = "AED"
	QAR Code = "QAR"
	BHD Code = "BHD"
	OMR Code = "OMR"
)

// Canonical is the currency every price is stored in. It is never itself
// converted; display currencies are derived from it via the static rate table.
const Canonical = KWD

// rates holds units of the target currency per one Kuwaiti dinar. The table is
// static; the storefront does not fetch live rates.
var rates = map[Code]decimal.Decimal{
	KWD: decimal.NewFromInt(1),
	USD: decimal.RequireFromString("3.26"),
	EUR: decimal.RequireFromString("3.01"),
	GBP: decimal.RequireFromString("2.57"),
	SAR: decimal.RequireFromString("12.22"),
	AED: decimal.RequireFromString("11.97"),
	QAR: decimal.RequireFromString("11.87"),
	BHD: decimal.RequireFromString("1.23"),
	OMR: decimal.RequireFromString("1.25"),
}

// exponents holds minor-unit digits per currency. The dinar family uses three
// decimal places; everything else uses two.
var exponents = map[Code]int32{
	KWD: 3,
	BHD: 3,
	OMR: 3,
	USD: 2,
	EUR: 2,
	GBP: 2,
	SAR: 2,
	AED: 2,
	QAR: 2,
}

var supported = []Code{KWD, USD, EUR, GBP, SAR, AED, QAR, BHD, OMR}

// Supported lists the display currencies in a stable order.
func Supported() []Code {
	out := make([]Code, len(supported))
	copy(out, supported)
	return out
}

// Parse normalizes raw input into a supported Code.
func Parse(value string) (Code, bool) {
	code := Code(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := rates[code]; !ok {
		return "", false
	}
	return code, true
}

// Rate returns the conversion rate from the canonical currency.
func Rate(code Code) decimal.Decimal {
	if rate, ok := rates[code]; ok {
		return rate
	}
	return rates[Canonical]
}

// Exponent returns the minor-unit digits for the currency.
func Exponent(code Code) int32 {
	if exp, ok := exponents[code]; ok {
		return exp
	}
	return exponents[Canonical]
}

// Convert turns a canonical amount into the target currency, rounded to the
// target's minor-unit precision. Unknown targets fall back to the canonical
// currency unconverted.
func Convert(amount decimal.Decimal, target Code) decimal.Decimal {
	rate, ok := rates[target]
	if !ok {
		return amount.Round(Exponent(Canonical))
	}
	return amount.Mul(rate).Round(Exponent(target))
}

// MinorUnits expresses an amount in the currency's smallest unit (fils for
// KWD), as expected by the payment collaborator.
func MinorUnits(amount decimal.Decimal, code Code) int64 {
	return amount.Shift(Exponent(code)).Round(0).IntPart()
}
