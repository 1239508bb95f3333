package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Azcobu/portdash/internal/model"
)

// MockQuoteProvider is a mock implementation of the quote provider
// interface for testing. It returns predefined quotes instead of making
// actual API calls.
type MockQuoteProvider struct {
	mu sync.Mutex

	// Quotes is the snapshot to return from FetchQuotes
	Quotes map[string]model.PriceQuote
	// Err is the error to return from FetchQuotes
	Err error
	// Delay is slept on each call before returning, simulating a slow
	// provider so concurrent callers can overlap one in-flight fetch
	Delay time.Duration
	// Calls tracks how many times FetchQuotes was called
	Calls int
}

// NewMockQuoteProvider creates a mock provider with an empty snapshot.
func NewMockQuoteProvider() *MockQuoteProvider {
	return &MockQuoteProvider{Quotes: map[string]model.PriceQuote{}}
}

// FetchQuotes returns the configured snapshot or error. The requested
// tickers are ignored; tickers absent from Quotes are simply missing from
// the result, like a real provider dropping unresolvable symbols.
func (m *MockQuoteProvider) FetchQuotes(_ context.Context, _ []string) (map[string]model.PriceQuote, error) {
	m.mu.Lock()
	m.Calls++
	delay := m.Delay
	err := m.Err
	quotes := make(map[string]model.PriceQuote, len(m.Quotes))
	for k, v := range m.Quotes {
		quotes[k] = v
	}
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

// CallCount returns how many times FetchQuotes was called.
func (m *MockQuoteProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// WithQuote configures the mock to return the given quote for a ticker.
func (m *MockQuoteProvider) WithQuote(ticker string, quote model.PriceQuote) *MockQuoteProvider {
	m.Quotes[ticker] = quote
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockQuoteProvider) WithError(err error) *MockQuoteProvider {
	m.Err = err
	return m
}

// WithDelay configures the mock to sleep before returning.
func (m *MockQuoteProvider) WithDelay(d time.Duration) *MockQuoteProvider {
	m.Delay = d
	return m
}
