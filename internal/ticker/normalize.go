// Package ticker maps vendor-specific exchange-suffixed symbols to the
// canonical symbols the quote provider understands.
package ticker

import (
	"strings"

	"github.com/Azcobu/portdash/internal/model"
)

// exchangeSuffix maps Bloomberg-style exchange codes (and Vanguard country
// codes, which reuse the same set) to quote-provider symbol suffixes.
// Codes that resolve to the provider's default market map to the empty
// string on purpose.
var exchangeSuffix = map[string]string{
	"AU": ".AX", // Australia (ASX)
	"AT": ".AX", // Australia (ASX)
	"UW": "",    // NASDAQ
	"UN": "",    // NYSE
	"LN": ".L",  // London
	"FP": ".PA", // Paris
	"GR": ".DE", // Xetra
	"GY": ".DE", // Frankfurt
	"VX": ".SW", // Switzerland
	"SE": ".SW", // Switzerland
	"HK": ".HK", // Hong Kong
	"JP": ".T",  // Tokyo
	"KS": ".KS", // South Korea
	"TW": ".TW", // Taiwan
	"CN": ".SS", // Shanghai
	"TI": ".MI", // Borsa Italiana
	"CT": ".TO", // Toronto
}

// Normalize converts a raw vendor ticker into a canonical quote-lookup
// symbol.
//
// Betashares symbols are Bloomberg-style composites such as "BRK/B UN":
// the slash becomes a dash and, when the symbol splits into exactly two
// space-separated tokens, the second token is treated as an exchange code
// and replaced with the mapped suffix. Anything else passes through with
// only the slash substitution.
//
// Vanguard symbols are plain, sometimes purely numeric with the exchange
// carried in a separate country code; numeric symbols get the mapped
// suffix for that country code.
//
// Unknown exchange or country codes yield an empty suffix. That is a
// deliberate lossy fallback, not a failure: a slightly-wrong symbol still
// lets the rest of the look-through proceed.
func Normalize(raw string, countryCode string, issuer model.Issuer) string {
	raw = strings.TrimSpace(raw)

	switch issuer {
	case model.IssuerBetashares:
		raw = strings.ReplaceAll(raw, "/", "-")
		parts := strings.Fields(raw)
		if len(parts) == 2 {
			return parts[0] + exchangeSuffix[strings.ToUpper(parts[1])]
		}
		return raw

	case model.IssuerVanguard:
		if isDigits(raw) && countryCode != "" {
			return raw + exchangeSuffix[strings.ToUpper(countryCode)]
		}
		if strings.Contains(raw, "/") {
			return strings.ReplaceAll(raw, "/", "-")
		}
		return raw
	}

	return raw
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
