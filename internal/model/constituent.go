package model

import (
	"fmt"

	"github.com/Azcobu/portdash/internal/apperrors"
)

// Constituent is one underlying asset disclosed in an ETF's holdings file.
// WeightInFund is the asset's share of the owning ETF's own asset base; it
// is not yet scaled to portfolio level. Ticker may be empty for vendors
// that do not publish one.
type Constituent struct {
	Name         string
	Ticker       string
	Country      string
	Sector       string
	WeightInFund float64 // Fraction of the owning ETF
	Issuer       Issuer  // Source vendor, drives ranking label format
}

// RankMode selects the grouping axis of a look-through ranking.
type RankMode string

const (
	// RankByHoldings ranks individual constituent positions.
	RankByHoldings RankMode = "holdings"

	// RankByCountries ranks consolidated country exposure.
	RankByCountries RankMode = "countries"

	// RankBySectors ranks consolidated sector exposure.
	RankBySectors RankMode = "sectors"
)

// ParseRankMode maps a raw mode string to a known RankMode.
func ParseRankMode(s string) (RankMode, error) {
	switch RankMode(s) {
	case RankByHoldings:
		return RankByHoldings, nil
	case RankByCountries:
		return RankByCountries, nil
	case RankBySectors:
		return RankBySectors, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownRankMode, s)
}

// RankedWeight is one entry of a look-through ranking. Weight is a
// fraction of total portfolio value.
type RankedWeight struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}
