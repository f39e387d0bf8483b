package models

import (
	"fmt"
	"strings"
)

// BridgeCurrency is the common reference used to derive cross rates
const BridgeCurrency = "USD"

// Pair is an asset pair quoted as Base priced in Quote
type Pair struct {
	Base  string
	Quote string
}

// NewPair builds a normalised pair
func NewPair(base, quote string) Pair {
	return Pair{
		Base:  strings.ToUpper(strings.TrimSpace(base)),
		Quote: strings.ToUpper(strings.TrimSpace(quote)),
	}
}

// ParsePair parses "BASE/QUOTE"
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return Pair{}, fmt.Errorf("invalid pair '%s': expected BASE/QUOTE", s)
	}
	return NewPair(parts[0], parts[1]), nil
}

// String returns "BASE/QUOTE"
func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// Inverse returns QUOTE/BASE
func (p Pair) Inverse() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

// IsIdentity reports whether base and quote are the same asset
func (p Pair) IsIdentity() bool {
	return p.Base == p.Quote
}

// USDLeg returns ASSET/USD
func USDLeg(asset string) Pair {
	return NewPair(asset, BridgeCurrency)
}
