package model

import (
	"fmt"
	"time"

	"github.com/Azcobu/portdash/internal/apperrors"
)

// Issuer identifies which vendor published an ETF's constituent holdings
// file, and therefore which file schema applies when parsing it.
type Issuer string

const (
	// IssuerBetashares marks Betashares exports: Bloomberg-style composite
	// tickers, six preamble lines, weights as plain percentages.
	IssuerBetashares Issuer = "betashares"

	// IssuerVanguard marks Vanguard exports: plain tickers with a separate
	// country code column, three preamble lines, weights with a trailing
	// percent sign.
	IssuerVanguard Issuer = "vanguard"
)

// ParseIssuer maps a raw issuer string from the holdings table to a known
// Issuer value. Matching is exact and case-sensitive, mirroring the
// portfolio definition format.
func ParseIssuer(s string) (Issuer, error) {
	switch Issuer(s) {
	case IssuerBetashares:
		return IssuerBetashares, nil
	case IssuerVanguard:
		return IssuerVanguard, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownIssuer, s)
}

// Holding is one ETF position as loaded from the portfolio definition.
// All fields are static input; derived metrics live in HoldingMetrics and
// are recomputed wholesale on every pass.
type Holding struct {
	ID           string // Row identifier (UUID)
	Position     int    // Source order within the portfolio definition
	Ticker       string // Canonical quote-lookup symbol, unique in portfolio
	Units        int64  // Units held, non-negative
	TotalPaid    float64
	Issuer       Issuer
	HoldingsFile string // Constituent export filename, optional
}

// HoldingMetrics carries the derived per-holding figures of one metrics
// pass. Percentage fields are percentage numbers (4.2 means 4.2%);
// Weight is a fraction of total portfolio value.
type HoldingMetrics struct {
	Ticker         string  `json:"ticker"`
	Units          int64   `json:"units"`
	TotalPaid      float64 `json:"totalPaid"`
	CurrentValue   float64 `json:"currentValue"`
	Weight         float64 `json:"weight"`
	DailyChangePct float64 `json:"dailyChangePct"`
	DailyChangeVal float64 `json:"dailyChangeVal"`
	TotalChangePct float64 `json:"totalChangePct"`
	TotalChangeVal float64 `json:"totalChangeVal"`
}

// SummaryMetrics is the synthetic aggregate row for the whole portfolio.
// Value fields are sums over the holdings; percentage fields are
// ratio-of-sums, never averages of per-holding percentages.
type SummaryMetrics struct {
	CurrentValue   float64 `json:"currentValue"`
	TotalPaid      float64 `json:"totalPaid"`
	DailyChangePct float64 `json:"dailyChangePct"`
	DailyChangeVal float64 `json:"dailyChangeVal"`
	TotalChangePct float64 `json:"totalChangePct"`
	TotalChangeVal float64 `json:"totalChangeVal"`
}

// Snapshot is the immutable result of one complete metrics pass. Consumers
// hold a reference to the current snapshot and swap it wholesale; a
// snapshot is never mutated after publication, so readers see either the
// fully-old or fully-new pass, never a mix.
type Snapshot struct {
	Holdings  []HoldingMetrics `json:"holdings"` // Source order preserved
	Summary   SummaryMetrics   `json:"summary"`
	FetchedAt time.Time        `json:"fetchedAt"`
}
