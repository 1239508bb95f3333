package yahoo

// Response is the raw shape of the Yahoo Finance v7 quote endpoint.
type Response struct {
	QuoteResponse QuoteResponse `json:"quoteResponse"`
}

// QuoteResponse holds the quote results and the API-level error, exactly
// one of which is populated.
type QuoteResponse struct {
	Result []QuoteResult `json:"result"`
	Error  *string       `json:"error"`
}

// QuoteResult is one symbol's quote entry. Price fields are pointers
// because Yahoo omits them for unresolvable or halted symbols; entries
// without a usable price are dropped rather than reported as zero.
type QuoteResult struct {
	Symbol                     string   `json:"symbol"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
}
