package models

import "strings"

// MarketRegion tags which market a symbol belongs to.
type MarketRegion string

const (
	RegionDomestic MarketRegion = "TW"
	RegionForeign  MarketRegion = "US"
)

// domesticSuffix is appended to all-numeric tickers so the upstream chart
// API resolves them against the Taiwan exchange.
const domesticSuffix = ".TW"

// Symbol is a canonical market identifier produced by Normalize.
// It is a value object: immutable, safe to use as a cache key.
type Symbol struct {
	Ticker string       `json:"ticker"`
	Region MarketRegion `json:"region"`
}

// Normalize maps raw user input to a canonical Symbol. It is a pure string
// transform: no network access, no failure mode, and the same input always
// yields the same output (downstream caching keys on it).
func Normalize(raw string) Symbol {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token != "" && isAllDigits(token) {
		return Symbol{Ticker: token + domesticSuffix, Region: RegionDomestic}
	}
	return Symbol{Ticker: token, Region: RegionForeign}
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Code returns the ticker without the domestic suffix, e.g. "2330" for
// "2330.TW". Foreign tickers are returned unchanged.
func (s Symbol) Code() string {
	return strings.TrimSuffix(s.Ticker, domesticSuffix)
}

// DisplayName returns "code localized-name" for well-known domestic listings
// and the plain ticker otherwise.
func (s Symbol) DisplayName() string {
	if s.Region == RegionDomestic {
		code := s.Code()
		if name, ok := twStockNames[code]; ok {
			return code + " " + name
		}
		return code
	}
	return s.Ticker
}

// ParseTickerList splits a comma separated batch input into raw tokens.
// Fullwidth commas are accepted because domestic users type them.
func ParseTickerList(input string) []string {
	input = strings.ReplaceAll(input, "，", ",")
	parts := strings.Split(input, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
