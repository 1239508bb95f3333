// Package yahoo fetches live market quotes from the Yahoo Finance API.
// It is the default quote provider wired in at the edge of the
// application; the metrics engine itself only ever sees the abstract
// provider interface and a finished quote snapshot.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azcobu/portdash/internal/apperrors"
	"github.com/Azcobu/portdash/internal/model"
)

const quoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"

// FinanceClient provides methods for fetching financial data from the
// Yahoo Finance API. It wraps an HTTP client and maps Yahoo's quote
// responses onto the engine's PriceQuote model.
type FinanceClient struct {
	httpClient *http.Client
}

// NewFinanceClient creates a new Yahoo Finance client with default HTTP
// settings.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchQuotes retrieves current quotes for all tickers in one batched
// request, so every holding in a metrics pass sees a consistent price
// snapshot.
//
// Symbols Yahoo cannot resolve are simply absent from the returned map;
// deciding whether that is fatal belongs to the caller. Transport and
// API-level failures are reported as ErrQuoteProvider.
//
// Parameters:
//   - ctx: Cancels the underlying HTTP request
//   - tickers: Canonical symbols, already normalized
//
// Returns:
//   - map[string]model.PriceQuote: One entry per resolvable ticker
//   - error: If the HTTP request fails or the API returns an error
func (c *FinanceClient) FetchQuotes(ctx context.Context, tickers []string) (map[string]model.PriceQuote, error) {
	if len(tickers) == 0 {
		return map[string]model.PriceQuote{}, nil
	}

	reqURL := fmt.Sprintf("%s?symbols=%s", quoteURL, url.QueryEscape(strings.Join(tickers, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrQuoteProvider, err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrQuoteProvider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrQuoteProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrQuoteProvider, resp.StatusCode)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrQuoteProvider, err)
	}

	if response.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrQuoteProvider, *response.QuoteResponse.Error)
	}

	return mapQuotes(response), nil
}

// mapQuotes converts a raw quote response into the engine's model,
// dropping entries without a usable price. The endpoint reports the daily
// change as a percentage number; the engine's model carries it as a
// fraction.
func mapQuotes(response Response) map[string]model.PriceQuote {
	quotes := make(map[string]model.PriceQuote, len(response.QuoteResponse.Result))
	for _, r := range response.QuoteResponse.Result {
		if r.Symbol == "" || r.RegularMarketPrice == nil {
			continue
		}
		q := model.PriceQuote{Price: *r.RegularMarketPrice}
		if r.RegularMarketPreviousClose != nil {
			q.PreviousClose = *r.RegularMarketPreviousClose
		}
		if r.RegularMarketChangePercent != nil {
			q.ChangePct = *r.RegularMarketChangePercent / 100
		}
		quotes[r.Symbol] = q
	}
	return quotes
}
