package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Azcobu/portdash/internal/apperrors"
	"github.com/Azcobu/portdash/internal/model"
)

// titleCaser renders constituent names for ranking labels. Betashares
// publishes names in full upper case ("APPLE INC"), which reads badly in
// a ranking row.
var titleCaser = cases.Title(language.English)

// ComputeTopLevel combines the static holdings with a quote snapshot into
// a complete set of derived metrics. This is the core calculation engine:
// it is pure, deterministic, and recomputes every derived field in one
// pass so consumers never observe a partially-updated portfolio.
//
// Per holding, in input order:
//   - currentValue   = price * units
//   - dailyChangeVal = units * (price - previousClose)
//   - dailyChangePct = provider change fraction * 100 (the provider's own
//     daily figure is used for the percentage, while the currency value is
//     derived locally from the price delta)
//   - totalChangeVal = currentValue - totalPaid
//   - totalChangePct = totalChangeVal / totalPaid * 100
//
// Weights require the portfolio total and are therefore set in a second
// pass: weight = currentValue / summary.currentValue. Summary percentages
// are ratio-of-sums, never averages of the per-holding percentages.
//
// Returns ErrMissingQuote if any holding's ticker is absent from quotes,
// ErrZeroCostBasis if a holding has a zero cost basis, and
// ErrZeroPortfolioValue if the summed current value is zero. Division by
// zero is always surfaced as one of these errors, never as NaN or Inf in
// the result.
func ComputeTopLevel(holdings []model.Holding, quotes map[string]model.PriceQuote) (*model.Snapshot, error) {
	snapshot := &model.Snapshot{
		Holdings: make([]model.HoldingMetrics, 0, len(holdings)),
	}
	if len(holdings) == 0 {
		return snapshot, nil
	}

	summary := model.SummaryMetrics{}

	for _, h := range holdings {
		quote, ok := quotes[h.Ticker]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingQuote, h.Ticker)
		}
		if h.TotalPaid == 0 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrZeroCostBasis, h.Ticker)
		}

		units := float64(h.Units)
		currentValue := quote.Price * units

		m := model.HoldingMetrics{
			Ticker:         h.Ticker,
			Units:          h.Units,
			TotalPaid:      h.TotalPaid,
			CurrentValue:   currentValue,
			DailyChangePct: quote.ChangePct * 100,
			DailyChangeVal: units * (quote.Price - quote.PreviousClose),
			TotalChangeVal: currentValue - h.TotalPaid,
			TotalChangePct: (currentValue - h.TotalPaid) / h.TotalPaid * 100,
		}
		snapshot.Holdings = append(snapshot.Holdings, m)

		summary.CurrentValue += m.CurrentValue
		summary.TotalPaid += h.TotalPaid
		summary.DailyChangeVal += m.DailyChangeVal
		summary.TotalChangeVal += m.TotalChangeVal
	}

	if summary.CurrentValue == 0 {
		return nil, apperrors.ErrZeroPortfolioValue
	}

	for i := range snapshot.Holdings {
		snapshot.Holdings[i].Weight = snapshot.Holdings[i].CurrentValue / summary.CurrentValue
	}

	summary.DailyChangePct = summary.DailyChangeVal / summary.CurrentValue * 100
	summary.TotalChangePct = summary.TotalChangeVal / summary.TotalPaid * 100

	snapshot.Summary = summary
	return snapshot, nil
}

// ComputeLookThrough flattens each ETF's constituents into a single
// portfolio-level ranking, grouped by the requested mode and truncated to
// at most limit entries (limit <= 0 means no truncation).
//
// Per-holding weights are first re-normalised across only the holdings
// with a positive computed weight; zero-weight holdings contribute
// nothing and are excluded from the denominator. Each constituent's
// weight within its fund is then scaled by its holding's relative weight.
// A degenerate portfolio where every weight is zero yields an empty
// ranking rather than a division by zero.
//
// Requires a completed ComputeTopLevel pass: the holding weights inside
// snapshot drive the scaling.
func ComputeLookThrough(snapshot *model.Snapshot, constituents map[string][]model.Constituent, mode model.RankMode, limit int) []model.RankedWeight {
	var weightTotal float64
	for _, h := range snapshot.Holdings {
		if h.Weight > 0 {
			weightTotal += h.Weight
		}
	}
	if weightTotal == 0 {
		return []model.RankedWeight{}
	}

	type entry struct {
		label  string
		weight float64
	}

	var flat []entry
	for _, h := range snapshot.Holdings {
		if h.Weight <= 0 {
			continue
		}
		relative := h.Weight / weightTotal

		for _, c := range constituents[h.Ticker] {
			scaled := roundWeight(c.WeightInFund * relative)

			switch mode {
			case model.RankByHoldings:
				flat = append(flat, entry{label: constituentLabel(c), weight: scaled})
			case model.RankByCountries:
				flat = append(flat, entry{label: c.Country, weight: scaled})
			case model.RankBySectors:
				flat = append(flat, entry{label: c.Sector, weight: scaled})
			}
		}
	}

	var ranked []model.RankedWeight
	if mode == model.RankByHoldings {
		// Individual positions are never merged across ETFs: the same
		// underlying stock held by two funds appears twice.
		ranked = make([]model.RankedWeight, 0, len(flat))
		for _, e := range flat {
			ranked = append(ranked, model.RankedWeight{Label: e.label, Weight: e.weight})
		}
	} else {
		grouped := make(map[string]float64)
		order := make([]string, 0)
		for _, e := range flat {
			if _, ok := grouped[e.label]; !ok {
				order = append(order, e.label)
			}
			grouped[e.label] += e.weight
		}
		ranked = make([]model.RankedWeight, 0, len(order))
		for _, label := range order {
			ranked = append(ranked, model.RankedWeight{Label: label, Weight: grouped[label]})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Label < ranked[j].Label
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// constituentLabel formats a ranking label for an individual position.
// Betashares rows carry upper-case names and a usable ticker, so they are
// rendered as "Apple Inc (AAPL)"; Vanguard names are published in display
// case already and are used verbatim.
func constituentLabel(c model.Constituent) string {
	if c.Issuer == model.IssuerBetashares {
		name := titleCaser.String(strings.ToLower(c.Name))
		if c.Ticker != "" {
			return fmt.Sprintf("%s (%s)", name, c.Ticker)
		}
		return name
	}
	return c.Name
}

// roundWeight rounds a portfolio-level weight fraction so that its
// percentage representation has two decimal places.
func roundWeight(w float64) float64 {
	return math.Round(w*10000) / 10000
}
