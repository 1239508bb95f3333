// Package vendorfile parses per-ETF constituent holdings exports in the
// vendor schemas portdash understands (Betashares and Vanguard).
//
// Parsing is best-effort per row: a row that is blank, synthetic, or
// unparsable is skipped with a recorded reason while the rest of the file
// continues to contribute. This deliberately differs from the portfolio
// loader's all-or-nothing contract, since one bad constituent line must
// not abort a whole look-through.
package vendorfile

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Azcobu/portdash/internal/apperrors"
	"github.com/Azcobu/portdash/internal/model"
	"github.com/Azcobu/portdash/internal/ticker"
)

// betasharesCashSentinel is the synthetic cash line Betashares appends to
// every export. It is not a constituent and is always skipped.
const betasharesCashSentinel = "AUD - AUSTRALIA DOLLAR"

// preambleLines is the number of non-CSV header lines each vendor places
// above the column header row.
var preambleLines = map[model.Issuer]int{
	model.IssuerBetashares: 6,
	model.IssuerVanguard:   3,
}

// SkippedRow records one data row that did not yield a constituent.
type SkippedRow struct {
	Line   int    // 1-based line number within the file
	Reason string
}

// Report summarises the outcome of parsing one vendor file.
type Report struct {
	Parsed  int
	Skipped []SkippedRow
}

// ParseFile opens and parses a constituent export on disk.
func ParseFile(path string, issuer model.Issuer) ([]model.Constituent, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to open holdings file: %w", err)
	}
	defer f.Close()

	return Parse(f, issuer)
}

// Parse reads a constituent export in the given issuer's schema.
//
// File-level problems (unknown issuer, truncated preamble, missing header
// columns, unreadable input) fail the whole parse. Row-level problems are
// contained: the row is skipped and recorded in the returned Report.
func Parse(r io.Reader, issuer model.Issuer) ([]model.Constituent, Report, error) {
	skip, ok := preambleLines[issuer]
	if !ok {
		return nil, Report{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownIssuer, issuer)
	}

	br := bufio.NewReader(r)
	for i := 0; i < skip; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return nil, Report{}, fmt.Errorf("failed to skip file preamble: %w", err)
		}
	}

	cr := csv.NewReader(br)
	header, err := cr.Read()
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to read column header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	switch issuer {
	case model.IssuerBetashares:
		return parseBetashares(cr, columns, skip+1)
	default:
		return parseVanguard(cr, columns, skip+1)
	}
}

// parseBetashares handles the Betashares schema:
//
//	Ticker,Name,Asset Class,Sector,Country,Currency,Weight (%),...
//
// Weights are plain percentage numbers.
func parseBetashares(cr *csv.Reader, columns map[string]int, headerLine int) ([]model.Constituent, Report, error) {
	required, err := columnIndexes(columns, "Name", "Ticker", "Country", "Sector", "Weight (%)")
	if err != nil {
		return nil, Report{}, err
	}

	var (
		constituents []model.Constituent
		report       Report
		line         = headerLine
	)

	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skippable(err) {
				report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: err.Error()})
				continue
			}
			return nil, report, fmt.Errorf("failed to read holdings row: %w", err)
		}

		name := strings.TrimSpace(record[required["Name"]])
		weightStr := strings.TrimSpace(record[required["Weight (%)"]])

		if name == "" || weightStr == "" {
			report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: "blank name or weight"})
			continue
		}
		if name == betasharesCashSentinel {
			report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: "cash line"})
			continue
		}

		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: fmt.Sprintf("bad weight %q", weightStr)})
			continue
		}

		constituents = append(constituents, model.Constituent{
			Name:         name,
			Ticker:       ticker.Normalize(record[required["Ticker"]], "", model.IssuerBetashares),
			Country:      strings.TrimSpace(record[required["Country"]]),
			Sector:       strings.TrimSpace(record[required["Sector"]]),
			WeightInFund: weight / 100,
			Issuer:       model.IssuerBetashares,
		})
		report.Parsed++
	}

	return constituents, report, nil
}

// parseVanguard handles the Vanguard schema:
//
//	"Holding Name",Ticker,Sector,"Country code","% of net assets",...
//
// Weights carry a trailing percent sign; country codes and sector labels
// are translated onto the Betashares vocabulary where a mapping exists.
func parseVanguard(cr *csv.Reader, columns map[string]int, headerLine int) ([]model.Constituent, Report, error) {
	required, err := columnIndexes(columns, "Holding Name", "Country code", "Sector", "% of net assets")
	if err != nil {
		return nil, Report{}, err
	}

	// Ticker is published in most but not all Vanguard exports.
	tickerCol, hasTicker := columns["Ticker"]

	var (
		constituents []model.Constituent
		report       Report
		line         = headerLine
	)

	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skippable(err) {
				report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: err.Error()})
				continue
			}
			return nil, report, fmt.Errorf("failed to read holdings row: %w", err)
		}

		name := strings.TrimSpace(record[required["Holding Name"]])
		weightStr := strings.TrimSpace(record[required["% of net assets"]])

		if name == "" || weightStr == "" {
			report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: "blank name or weight"})
			continue
		}

		weight, err := strconv.ParseFloat(strings.TrimSuffix(weightStr, "%"), 64)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: fmt.Sprintf("bad weight %q", weightStr)})
			continue
		}

		countryCode := strings.TrimSpace(record[required["Country code"]])

		symbol := ""
		if hasTicker {
			if raw := strings.TrimSpace(record[tickerCol]); raw != "" {
				symbol = ticker.Normalize(raw, countryCode, model.IssuerVanguard)
			}
		}

		constituents = append(constituents, model.Constituent{
			Name:         name,
			Ticker:       symbol,
			Country:      translateCountry(countryCode),
			Sector:       translateSector(record[required["Sector"]]),
			WeightInFund: weight / 100,
			Issuer:       model.IssuerVanguard,
		})
		report.Parsed++
	}

	return constituents, report, nil
}

// columnIndexes resolves required header names to record indexes, failing
// the whole file when one is absent.
func columnIndexes(columns map[string]int, names ...string) (map[string]int, error) {
	indexes := make(map[string]int, len(names))
	for _, name := range names {
		idx, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", apperrors.ErrMalformedInput, name)
		}
		indexes[name] = idx
	}
	return indexes, nil
}

// skippable reports whether a csv read error affects only the current row.
// Field-count mismatches and quoting problems are positional; the reader
// keeps going, so the parse can too.
func skippable(err error) bool {
	return errors.Is(err, csv.ErrFieldCount) ||
		errors.Is(err, csv.ErrQuote) ||
		errors.Is(err, csv.ErrBareQuote)
}
