package domain

import "strings"

// SupportedCurrencies is the fixed set of currencies Paystack can charge.
var SupportedCurrencies = []string{"NGN", "GHS", "ZAR", "USD"}

// NormalizeCurrency validates a currency code against the supported set,
// accepting any casing. Unsupported codes are a hard failure, never coerced.
func NormalizeCurrency(code string) (string, error) {
	upper := strings.ToUpper(code)
	for _, c := range SupportedCurrencies {
		if upper == c {
			return c, nil
		}
	}
	return "", NewUnsupportedCurrencyError(code)
}

// SameCurrency compares two currency codes case-insensitively.
func SameCurrency(a, b string) bool {
	return strings.EqualFold(a, b)
}
