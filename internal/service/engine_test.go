package service_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/Azcobu/portdash/internal/apperrors"
	"github.com/Azcobu/portdash/internal/model"
	"github.com/Azcobu/portdash/internal/service"
	"github.com/Azcobu/portdash/internal/testutil"
)

const tolerance = 1e-9

func approx(got, want float64) bool {
	return math.Abs(got-want) <= tolerance
}

// TestComputeTopLevel_TwoHoldingPortfolio tests the complete per-holding and
// summary math on a two-holding portfolio.
//
// WHY: this fixes the exact arithmetic contract: current value, weights,
// locally-derived daily value, provider-sourced daily percentage, and
// ratio-of-sums aggregates. Any regression in the engine shows up here.
func TestComputeTopLevel_TwoHoldingPortfolio(t *testing.T) {
	holdings := []model.Holding{
		testutil.NewHolding("A", 10, 100),
		testutil.NewHolding("B", 10, 100),
	}
	quotes := map[string]model.PriceQuote{
		"A": testutil.Quote(11, 10, 0.10),
		"B": testutil.Quote(9, 10, -0.10),
	}

	snapshot, err := service.ComputeTopLevel(holdings, quotes)
	if err != nil {
		t.Fatalf("ComputeTopLevel() returned unexpected error: %v", err)
	}

	if len(snapshot.Holdings) != 2 {
		t.Fatalf("Expected 2 holdings, got %d", len(snapshot.Holdings))
	}

	a, b := snapshot.Holdings[0], snapshot.Holdings[1]
	if a.Ticker != "A" || b.Ticker != "B" {
		t.Fatalf("Input order not preserved: %s, %s", a.Ticker, b.Ticker)
	}

	if !approx(a.CurrentValue, 110) || !approx(b.CurrentValue, 90) {
		t.Errorf("Current values = %v, %v; want 110, 90", a.CurrentValue, b.CurrentValue)
	}
	if !approx(a.Weight, 0.55) || !approx(b.Weight, 0.45) {
		t.Errorf("Weights = %v, %v; want 0.55, 0.45", a.Weight, b.Weight)
	}
	if !approx(a.TotalChangeVal, 10) || !approx(b.TotalChangeVal, -10) {
		t.Errorf("Total change values = %v, %v; want 10, -10", a.TotalChangeVal, b.TotalChangeVal)
	}
	if !approx(a.TotalChangePct, 10) || !approx(b.TotalChangePct, -10) {
		t.Errorf("Total change pcts = %v, %v; want 10, -10", a.TotalChangePct, b.TotalChangePct)
	}
	if !approx(a.DailyChangeVal, 10) || !approx(b.DailyChangeVal, -10) {
		t.Errorf("Daily change values = %v, %v; want 10, -10", a.DailyChangeVal, b.DailyChangeVal)
	}
	// Daily percentage comes from the provider figure, re-expressed as a
	// percentage number.
	if !approx(a.DailyChangePct, 10) || !approx(b.DailyChangePct, -10) {
		t.Errorf("Daily change pcts = %v, %v; want 10, -10", a.DailyChangePct, b.DailyChangePct)
	}

	s := snapshot.Summary
	if !approx(s.CurrentValue, 200) {
		t.Errorf("Summary current value = %v, want 200", s.CurrentValue)
	}
	if s.TotalChangeVal != a.TotalChangeVal+b.TotalChangeVal {
		t.Errorf("Summary total change val = %v, want exact sum %v", s.TotalChangeVal, a.TotalChangeVal+b.TotalChangeVal)
	}
	if !approx(s.TotalChangeVal, 0) || !approx(s.DailyChangeVal, 0) {
		t.Errorf("Summary change values = %v, %v; want 0, 0", s.TotalChangeVal, s.DailyChangeVal)
	}
	if !approx(s.TotalChangePct, 0) || !approx(s.DailyChangePct, 0) {
		t.Errorf("Summary change pcts = %v, %v; want 0, 0", s.TotalChangePct, s.DailyChangePct)
	}
}

// TestComputeTopLevel_Properties tests the engine's structural
// guarantees.
//
// WHY: consumers depend on weights summing to one, on summary percentages
// being ratio-of-sums rather than averaged, and on recomputation being
// bit-for-bit idempotent so snapshot swaps are observable only when
// inputs change.
func TestComputeTopLevel_Properties(t *testing.T) {
	holdings := []model.Holding{
		testutil.NewHolding("A200.AX", 256, 43222),
		testutil.NewHolding("BGBL.AX", 1542, 93222),
		testutil.NewHolding("VGE.AX", 121, 11642),
	}
	quotes := map[string]model.PriceQuote{
		"A200.AX": testutil.Quote(132.62, 131.93, 0.0053),
		"BGBL.AX": testutil.Quote(73.12, 73.24, -0.0016),
		"VGE.AX":  testutil.Quote(73.27, 73.73, -0.0062),
	}

	t.Run("weights sum to one", func(t *testing.T) {
		snapshot, err := service.ComputeTopLevel(holdings, quotes)
		if err != nil {
			t.Fatalf("ComputeTopLevel() returned unexpected error: %v", err)
		}

		var sum float64
		for _, h := range snapshot.Holdings {
			sum += h.Weight
		}
		if !approx(sum, 1.0) {
			t.Errorf("Weights sum to %v, want 1.0", sum)
		}
	})

	t.Run("summary percentages are ratio-of-sums", func(t *testing.T) {
		snapshot, err := service.ComputeTopLevel(holdings, quotes)
		if err != nil {
			t.Fatalf("ComputeTopLevel() returned unexpected error: %v", err)
		}

		s := snapshot.Summary
		wantTotalPct := s.TotalChangeVal / s.TotalPaid * 100
		if !approx(s.TotalChangePct, wantTotalPct) {
			t.Errorf("Summary total change pct = %v, want %v", s.TotalChangePct, wantTotalPct)
		}
		wantDailyPct := s.DailyChangeVal / s.CurrentValue * 100
		if !approx(s.DailyChangePct, wantDailyPct) {
			t.Errorf("Summary daily change pct = %v, want %v", s.DailyChangePct, wantDailyPct)
		}
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		first, err := service.ComputeTopLevel(holdings, quotes)
		if err != nil {
			t.Fatalf("ComputeTopLevel() returned unexpected error: %v", err)
		}
		second, err := service.ComputeTopLevel(holdings, quotes)
		if err != nil {
			t.Fatalf("ComputeTopLevel() returned unexpected error: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Error("Identical inputs produced different snapshots")
		}
	})

	t.Run("daily percentage uses provider figure over derived ratio", func(t *testing.T) {
		// Previous close implies +10% but the provider says +5%.
		h := []model.Holding{testutil.NewHolding("A", 10, 100)}
		q := map[string]model.PriceQuote{"A": testutil.Quote(11, 10, 0.05)}

		snapshot, err := service.ComputeTopLevel(h, q)
		if err != nil {
			t.Fatalf("ComputeTopLevel() returned unexpected error: %v", err)
		}

		if !approx(snapshot.Holdings[0].DailyChangePct, 5) {
			t.Errorf("Daily change pct = %v, want provider-sourced 5", snapshot.Holdings[0].DailyChangePct)
		}
		if !approx(snapshot.Holdings[0].DailyChangeVal, 10) {
			t.Errorf("Daily change val = %v, want locally-derived 10", snapshot.Holdings[0].DailyChangeVal)
		}
	})

	t.Run("empty portfolio yields empty snapshot", func(t *testing.T) {
		snapshot, err := service.ComputeTopLevel(nil, nil)
		if err != nil {
			t.Fatalf("ComputeTopLevel() returned unexpected error: %v", err)
		}
		if len(snapshot.Holdings) != 0 {
			t.Errorf("Expected no holdings, got %d", len(snapshot.Holdings))
		}
	})
}

// TestComputeTopLevel_Errors tests the explicit failure modes.
//
// WHY: a missing quote must abort the whole pass instead of silently
// skipping a holding, and division by zero must surface as a defined
// error instead of NaN or Inf reaching rendered output.
func TestComputeTopLevel_Errors(t *testing.T) {
	t.Run("missing quote aborts the pass", func(t *testing.T) {
		holdings := []model.Holding{
			testutil.NewHolding("A", 10, 100),
			testutil.NewHolding("B", 10, 100),
		}
		quotes := map[string]model.PriceQuote{
			"A": testutil.Quote(11, 10, 0.1),
		}

		snapshot, err := service.ComputeTopLevel(holdings, quotes)
		if !errors.Is(err, apperrors.ErrMissingQuote) {
			t.Errorf("Expected ErrMissingQuote, got %v", err)
		}
		if snapshot != nil {
			t.Error("Expected nil snapshot on error")
		}
	})

	t.Run("zero cost basis is an explicit error", func(t *testing.T) {
		holdings := []model.Holding{testutil.NewHolding("A", 10, 0)}
		quotes := map[string]model.PriceQuote{"A": testutil.Quote(11, 10, 0.1)}

		_, err := service.ComputeTopLevel(holdings, quotes)
		if !errors.Is(err, apperrors.ErrZeroCostBasis) {
			t.Errorf("Expected ErrZeroCostBasis, got %v", err)
		}
	})

	t.Run("zero portfolio value is an explicit error", func(t *testing.T) {
		holdings := []model.Holding{testutil.NewHolding("A", 10, 100)}
		quotes := map[string]model.PriceQuote{"A": testutil.Quote(0, 0, 0)}

		_, err := service.ComputeTopLevel(holdings, quotes)
		if !errors.Is(err, apperrors.ErrZeroPortfolioValue) {
			t.Errorf("Expected ErrZeroPortfolioValue, got %v", err)
		}
	})

	t.Run("no NaN or Inf in any computed field", func(t *testing.T) {
		// Zero units is legal as long as another holding keeps the
		// portfolio value positive.
		holdings := []model.Holding{
			testutil.NewHolding("A", 0, 100),
			testutil.NewHolding("B", 10, 100),
		}
		quotes := map[string]model.PriceQuote{
			"A": testutil.Quote(11, 10, 0.1),
			"B": testutil.Quote(9, 10, -0.1),
		}

		snapshot, err := service.ComputeTopLevel(holdings, quotes)
		if err != nil {
			t.Fatalf("ComputeTopLevel() returned unexpected error: %v", err)
		}

		finite := func(name string, v float64) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s = %v, want a finite value", name, v)
			}
		}
		for _, h := range snapshot.Holdings {
			finite(h.Ticker+" currentValue", h.CurrentValue)
			finite(h.Ticker+" weight", h.Weight)
			finite(h.Ticker+" dailyChangePct", h.DailyChangePct)
			finite(h.Ticker+" dailyChangeVal", h.DailyChangeVal)
			finite(h.Ticker+" totalChangePct", h.TotalChangePct)
			finite(h.Ticker+" totalChangeVal", h.TotalChangeVal)
		}
		s := snapshot.Summary
		finite("summary currentValue", s.CurrentValue)
		finite("summary totalPaid", s.TotalPaid)
		finite("summary dailyChangePct", s.DailyChangePct)
		finite("summary dailyChangeVal", s.DailyChangeVal)
		finite("summary totalChangePct", s.TotalChangePct)
		finite("summary totalChangeVal", s.TotalChangeVal)

		// An all-zero-value portfolio surfaces an error instead of NaN.
		_, err = service.ComputeTopLevel(
			[]model.Holding{testutil.NewHolding("A", 0, 100)},
			map[string]model.PriceQuote{"A": testutil.Quote(11, 10, 0.1)},
		)
		if !errors.Is(err, apperrors.ErrZeroPortfolioValue) {
			t.Errorf("Expected ErrZeroPortfolioValue for all-zero value portfolio, got %v", err)
		}
	})
}

func metricsWithWeight(ticker string, weight float64) model.HoldingMetrics {
	return model.HoldingMetrics{Ticker: ticker, Weight: weight}
}

func betasharesConstituent(name, symbol, country, sector string, weightInFund float64) model.Constituent {
	return model.Constituent{
		Name: name, Ticker: symbol, Country: country, Sector: sector,
		WeightInFund: weightInFund, Issuer: model.IssuerBetashares,
	}
}

func vanguardConstituent(name, country, sector string, weightInFund float64) model.Constituent {
	return model.Constituent{
		Name: name, Country: country, Sector: sector,
		WeightInFund: weightInFund, Issuer: model.IssuerVanguard,
	}
}

// TestComputeLookThrough tests the weighted roll-up of constituents into
// holding, country and sector rankings.
//
// WHY: the look-through is the one place weights from two different
// scales (within-fund and portfolio) meet; scaling, re-normalisation and
// grouping errors here produce plausible-looking but wrong exposure
// numbers.
func TestComputeLookThrough(t *testing.T) {
	t.Run("scales constituent weights by relative holding weight", func(t *testing.T) {
		snapshot := &model.Snapshot{Holdings: []model.HoldingMetrics{
			metricsWithWeight("A200.AX", 0.5),
			metricsWithWeight("BGBL.AX", 0.5),
		}}
		constituents := map[string][]model.Constituent{
			"A200.AX": {betasharesConstituent("BHP GROUP LTD", "BHP.AX", "Australia", "Materials", 0.10)},
			"BGBL.AX": {betasharesConstituent("APPLE INC", "AAPL", "United States", "Technology", 0.06)},
		}

		ranking := service.ComputeLookThrough(snapshot, constituents, model.RankByHoldings, 10)

		if len(ranking) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(ranking))
		}
		if ranking[0].Label != "Bhp Group Ltd (BHP.AX)" || !approx(ranking[0].Weight, 0.05) {
			t.Errorf("Top entry = %+v, want Bhp Group Ltd (BHP.AX) at 0.05", ranking[0])
		}
		if ranking[1].Label != "Apple Inc (AAPL)" || !approx(ranking[1].Weight, 0.03) {
			t.Errorf("Second entry = %+v, want Apple Inc (AAPL) at 0.03", ranking[1])
		}
	})

	t.Run("zero-weight holdings are excluded from the denominator", func(t *testing.T) {
		snapshot := &model.Snapshot{Holdings: []model.HoldingMetrics{
			metricsWithWeight("A200.AX", 0.4),
			metricsWithWeight("DEAD.AX", 0),
		}}
		constituents := map[string][]model.Constituent{
			"A200.AX": {betasharesConstituent("CSL LTD", "CSL.AX", "Australia", "Healthcare", 0.5)},
			"DEAD.AX": {betasharesConstituent("GHOST CO", "GST.AX", "Australia", "Materials", 1.0)},
		}

		ranking := service.ComputeLookThrough(snapshot, constituents, model.RankByHoldings, 10)

		// A200 is the only live holding, so its relative weight is 1.
		if len(ranking) != 1 {
			t.Fatalf("Expected 1 entry, got %d: %+v", len(ranking), ranking)
		}
		if !approx(ranking[0].Weight, 0.5) {
			t.Errorf("Weight = %v, want 0.5", ranking[0].Weight)
		}
	})

	t.Run("all-zero-weight portfolio yields empty ranking", func(t *testing.T) {
		snapshot := &model.Snapshot{Holdings: []model.HoldingMetrics{
			metricsWithWeight("A200.AX", 0),
			metricsWithWeight("BGBL.AX", 0),
		}}
		constituents := map[string][]model.Constituent{
			"A200.AX": {betasharesConstituent("CSL LTD", "CSL.AX", "Australia", "Healthcare", 0.5)},
		}

		ranking := service.ComputeLookThrough(snapshot, constituents, model.RankByHoldings, 10)

		if len(ranking) != 0 {
			t.Errorf("Expected empty ranking, got %+v", ranking)
		}
	})

	t.Run("holdings mode keeps repeats across funds distinct", func(t *testing.T) {
		snapshot := &model.Snapshot{Holdings: []model.HoldingMetrics{
			metricsWithWeight("BGBL.AX", 0.5),
			metricsWithWeight("VTS.AX", 0.5),
		}}
		constituents := map[string][]model.Constituent{
			"BGBL.AX": {betasharesConstituent("APPLE INC", "AAPL", "United States", "Technology", 0.06)},
			"VTS.AX":  {vanguardConstituent("Apple Inc.", "United States", "Technology", 0.06)},
		}

		ranking := service.ComputeLookThrough(snapshot, constituents, model.RankByHoldings, 10)

		if len(ranking) != 2 {
			t.Fatalf("Expected 2 distinct entries, got %d: %+v", len(ranking), ranking)
		}
		// Vanguard rows keep their published name verbatim.
		labels := []string{ranking[0].Label, ranking[1].Label}
		found := false
		for _, l := range labels {
			if l == "Apple Inc." {
				found = true
			}
		}
		if !found {
			t.Errorf("Vanguard label should be verbatim, got %v", labels)
		}
	})

	t.Run("countries mode groups and sums across funds", func(t *testing.T) {
		snapshot := &model.Snapshot{Holdings: []model.HoldingMetrics{
			metricsWithWeight("BGBL.AX", 0.5),
			metricsWithWeight("VTS.AX", 0.5),
		}}
		constituents := map[string][]model.Constituent{
			"BGBL.AX": {
				betasharesConstituent("APPLE INC", "AAPL", "United States", "Technology", 0.06),
				betasharesConstituent("NESTLE SA", "NESN.SW", "Switzerland", "Consumer Staples", 0.02),
			},
			"VTS.AX": {
				vanguardConstituent("Microsoft Corp.", "United States", "Technology", 0.06),
			},
		}

		ranking := service.ComputeLookThrough(snapshot, constituents, model.RankByCountries, 10)

		if len(ranking) != 2 {
			t.Fatalf("Expected 2 countries, got %d: %+v", len(ranking), ranking)
		}
		if ranking[0].Label != "United States" || !approx(ranking[0].Weight, 0.06) {
			t.Errorf("Top country = %+v, want United States at 0.06", ranking[0])
		}
		if ranking[1].Label != "Switzerland" || !approx(ranking[1].Weight, 0.01) {
			t.Errorf("Second country = %+v, want Switzerland at 0.01", ranking[1])
		}
	})

	t.Run("sectors mode groups by sector label", func(t *testing.T) {
		snapshot := &model.Snapshot{Holdings: []model.HoldingMetrics{
			metricsWithWeight("A200.AX", 1.0),
		}}
		constituents := map[string][]model.Constituent{
			"A200.AX": {
				betasharesConstituent("BHP GROUP LTD", "BHP.AX", "Australia", "Materials", 0.10),
				betasharesConstituent("RIO TINTO LTD", "RIO.AX", "Australia", "Materials", 0.04),
				betasharesConstituent("CSL LTD", "CSL.AX", "Australia", "Healthcare", 0.06),
			},
		}

		ranking := service.ComputeLookThrough(snapshot, constituents, model.RankBySectors, 10)

		if len(ranking) != 2 {
			t.Fatalf("Expected 2 sectors, got %d: %+v", len(ranking), ranking)
		}
		if ranking[0].Label != "Materials" || !approx(ranking[0].Weight, 0.14) {
			t.Errorf("Top sector = %+v, want Materials at 0.14", ranking[0])
		}
	})

	t.Run("ranking is sorted descending and truncated to limit", func(t *testing.T) {
		snapshot := &model.Snapshot{Holdings: []model.HoldingMetrics{
			metricsWithWeight("A200.AX", 1.0),
		}}
		constituents := map[string][]model.Constituent{
			"A200.AX": {
				betasharesConstituent("SMALL CO", "SML.AX", "Australia", "Materials", 0.01),
				betasharesConstituent("BIG CO", "BIG.AX", "Australia", "Materials", 0.20),
				betasharesConstituent("MID CO", "MID.AX", "Australia", "Materials", 0.10),
			},
		}

		ranking := service.ComputeLookThrough(snapshot, constituents, model.RankByHoldings, 2)

		if len(ranking) != 2 {
			t.Fatalf("Expected ranking truncated to 2, got %d", len(ranking))
		}
		if ranking[0].Weight < ranking[1].Weight {
			t.Errorf("Ranking not sorted descending: %+v", ranking)
		}
		if ranking[0].Label != "Big Co (BIG.AX)" {
			t.Errorf("Top entry = %q, want Big Co (BIG.AX)", ranking[0].Label)
		}
	})

	t.Run("scaled weights are rounded to two percentage decimals", func(t *testing.T) {
		snapshot := &model.Snapshot{Holdings: []model.HoldingMetrics{
			metricsWithWeight("A200.AX", 1.0),
		}}
		constituents := map[string][]model.Constituent{
			"A200.AX": {betasharesConstituent("ODD CO", "ODD.AX", "Australia", "Materials", 0.123456)},
		}

		ranking := service.ComputeLookThrough(snapshot, constituents, model.RankByHoldings, 10)

		if len(ranking) != 1 {
			t.Fatalf("Expected 1 entry, got %d", len(ranking))
		}
		if ranking[0].Weight != 0.1235 {
			t.Errorf("Weight = %v, want 0.1235", ranking[0].Weight)
		}
	})
}
