package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Azcobu/portdash/internal/apperrors"
	"github.com/Azcobu/portdash/internal/model"
)

// ParsePortfolioCSV reads a portfolio definition table with the columns
//
//	Ticker,Units,TotalPaid,Issuer,HoldingsFile
//
// HoldingsFile is optional, both per row and as a column. The load is
// all-or-nothing: a missing required column or any value that fails to
// parse aborts the whole load with ErrMalformedInput, and no partial
// portfolio is ever returned. Row order is preserved.
func ParsePortfolioCSV(r io.Reader) ([]model.Holding, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", apperrors.ErrMalformedInput, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"Ticker", "Units", "TotalPaid", "Issuer"} {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", apperrors.ErrMalformedInput, name)
		}
	}
	holdingsFileCol, hasHoldingsFile := columns["HoldingsFile"]

	var holdings []model.Holding
	seen := make(map[string]bool)
	line := 1

	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", apperrors.ErrMalformedInput, line, err)
		}

		ticker := strings.TrimSpace(record[columns["Ticker"]])
		if ticker == "" {
			return nil, fmt.Errorf("%w: line %d: empty ticker", apperrors.ErrMalformedInput, line)
		}
		if seen[ticker] {
			return nil, fmt.Errorf("%w: %s (line %d)", apperrors.ErrDuplicateTicker, ticker, line)
		}
		seen[ticker] = true

		units, err := strconv.ParseInt(strings.TrimSpace(record[columns["Units"]]), 10, 64)
		if err != nil || units < 0 {
			return nil, fmt.Errorf("%w: line %d: units must be a non-negative integer", apperrors.ErrMalformedInput, line)
		}

		totalPaid, err := strconv.ParseFloat(strings.TrimSpace(record[columns["TotalPaid"]]), 64)
		if err != nil || totalPaid <= 0 {
			return nil, fmt.Errorf("%w: line %d: total paid must be a positive number", apperrors.ErrMalformedInput, line)
		}

		issuer, err := model.ParseIssuer(strings.TrimSpace(record[columns["Issuer"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", apperrors.ErrMalformedInput, line, err)
		}

		holdingsFile := ""
		if hasHoldingsFile {
			holdingsFile = strings.TrimSpace(record[holdingsFileCol])
		}

		holdings = append(holdings, model.Holding{
			ID:           uuid.New().String(),
			Position:     len(holdings),
			Ticker:       ticker,
			Units:        units,
			TotalPaid:    totalPaid,
			Issuer:       issuer,
			HoldingsFile: holdingsFile,
		})
	}

	return holdings, nil
}
