package currency

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	code, ok := Parse("  usd ")
	require.True(t, ok)
	assert.Equal(t, USD, code)

	_, ok = Parse("XTS")
	assert.False(t, ok)

	_, ok = Parse("")
	assert.False(t, ok)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		target Code
		want   string
	}{
		{name: "canonical is identity", amount: "4.500", target: KWD, want: "4.5"},
		{name: "usd two decimals", amount: "10.000", target: USD, want: "32.6"},
		{name: "bhd keeps three decimals", amount: "1.000", target: BHD, want: "1.23"},
		{name: "rounding to target precision", amount: "3.333", target: USD, want: "10.87"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(decimal.RequireFromString(tt.amount), tt.target)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s want %s", got, tt.want)
		})
	}
}

func TestConvertUnknownFallsBackToCanonical(t *testing.T) {
	amount := decimal.RequireFromString("7.123")
	got := Convert(amount, Code("XTS"))
	assert.True(t, got.Equal(amount), "unknown currency must stay canonical, got %s", got)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(4500), MinorUnits(decimal.RequireFromString("4.500"), KWD))
	assert.Equal(t, int64(1099), MinorUnits(decimal.RequireFromString("10.99"), USD))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero, KWD))
}

func TestFormatEnglish(t *testing.T) {
	got := Format(decimal.RequireFromString("12.5"), KWD, "en")
	assert.Equal(t, "KD 12.500", got)

	got = Format(decimal.RequireFromString("32.60"), USD, "en-US")
	assert.Equal(t, "$ 32.60", got)
}

func TestFormatArabicUsesLocalizedDigits(t *testing.T) {
	got := Format(decimal.RequireFromString("12.500"), KWD, "ar")
	assert.True(t, strings.Contains(got, "د.ك"), "expected dinar symbol in %q", got)
	assert.False(t, strings.Contains(got, "12"), "expected localized digits in %q", got)
}

func TestFormatKeepsLargeAmountsExact(t *testing.T) {
	got := Format(decimal.RequireFromString("123456789012345678.901"), KWD, "en")
	assert.Equal(t, "KD 123,456,789,012,345,678.901", got)

	// Past uint64 the digits stay exact, just ungrouped.
	got = Format(decimal.RequireFromString("98765432109876543210.500"), KWD, "en")
	assert.Equal(t, "KD 98765432109876543210.500", got)
}

func TestFormatUnknownCurrencyAndLocale(t *testing.T) {
	got := Format(decimal.RequireFromString("1.000"), Code("XTS"), "zz-bad")
	assert.True(t, strings.HasPrefix(got, "KD "), "unknown currency should render canonical, got %q", got)
}

func TestSupportedIsCopy(t *testing.T) {
	first := Supported()
	first[0] = Code("XXX")
	assert.Equal(t, KWD, Supported()[0])
}
