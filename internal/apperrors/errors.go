package apperrors

import "errors"

// Input errors represent problems with the data portdash is asked to load.
// A malformed portfolio definition is fatal to the whole load: no partial
// portfolio is ever produced.
var (
	// ErrMalformedInput indicates the holdings table is missing a required
	// column or contains a value that fails to parse.
	ErrMalformedInput = errors.New("malformed portfolio input")

	// ErrDuplicateTicker indicates the holdings table defines the same
	// ticker more than once.
	ErrDuplicateTicker = errors.New("duplicate ticker in portfolio")

	// ErrUnknownIssuer indicates an issuer value outside the known set of
	// constituent-file schemas.
	ErrUnknownIssuer = errors.New("unknown issuer")
)

// Computation errors represent failures of a metrics pass. A failed pass
// leaves the previous snapshot in place as the last-good result.
var (
	// ErrMissingQuote indicates a holding's ticker was absent from the
	// fetched quote snapshot. The whole pass is aborted.
	ErrMissingQuote = errors.New("quote missing for ticker")

	// ErrZeroCostBasis indicates a holding has a zero cost basis, making
	// its total-change percentage undefined.
	ErrZeroCostBasis = errors.New("holding has zero cost basis")

	// ErrZeroPortfolioValue indicates the portfolio's total current value
	// is zero, making weights and the daily summary percentage undefined.
	ErrZeroPortfolioValue = errors.New("portfolio has zero current value")
)

// Query errors represent requests the engine cannot answer.
var (
	// ErrNoSnapshot indicates no metrics pass has completed yet, so there
	// is no snapshot to read.
	ErrNoSnapshot = errors.New("no snapshot computed yet")

	// ErrUnknownRankMode indicates a look-through ranking mode outside the
	// known set (holdings, countries, sectors).
	ErrUnknownRankMode = errors.New("unknown ranking mode")

	// ErrInvalidLimit indicates a non-positive look-through result limit.
	ErrInvalidLimit = errors.New("limit must be positive")
)

// Quote provider errors.
var (
	// ErrQuoteProvider indicates the external quote provider failed to
	// return a snapshot at all (as opposed to returning a snapshot that is
	// merely missing tickers).
	ErrQuoteProvider = errors.New("quote provider request failed")
)
