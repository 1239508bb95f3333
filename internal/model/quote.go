package model

// PriceQuote is one ticker's entry in a quote snapshot fetched from the
// external provider. A snapshot is fetched fresh for every metrics pass
// and never cached across passes.
type PriceQuote struct {
	Price         float64 // Current market price
	PreviousClose float64 // Previous session's closing price
	ChangePct     float64 // Provider-computed daily change, as a fraction
}
