package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Azcobu/portdash/internal/apperrors"
	"github.com/Azcobu/portdash/internal/model"
	"github.com/Azcobu/portdash/internal/repository"
	"github.com/Azcobu/portdash/internal/vendorfile"
)

// QuoteProvider fetches current quotes for a set of tickers in one
// batched call, so a metrics pass always works from a consistent price
// snapshot. Tickers the provider cannot resolve are absent from the
// returned map.
type QuoteProvider interface {
	FetchQuotes(ctx context.Context, tickers []string) (map[string]model.PriceQuote, error)
}

// PortfolioService orchestrates the metrics engine: it loads the stored
// portfolio definition, fetches a quote snapshot, runs the computation
// pass, and publishes the result as an immutable snapshot.
//
// The current snapshot is swapped atomically and wholesale. A failed pass
// leaves the previous snapshot in place as the last-good result, and
// concurrent refresh triggers collapse into a single pass.
type PortfolioService struct {
	repo        *repository.HoldingRepository
	provider    QuoteProvider
	holdingsDir string
	logger      zerolog.Logger

	snapshot atomic.Pointer[model.Snapshot]
	refresh  singleflight.Group
}

// NewPortfolioService creates a new PortfolioService. holdingsDir is the
// base directory constituent export files are resolved against.
func NewPortfolioService(repo *repository.HoldingRepository, provider QuoteProvider, holdingsDir string, logger zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		repo:        repo,
		provider:    provider,
		holdingsDir: holdingsDir,
		logger:      logger,
	}
}

// CurrentSnapshot returns the result of the most recent successful
// metrics pass. Returns ErrNoSnapshot before the first pass completes.
func (s *PortfolioService) CurrentSnapshot() (*model.Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, apperrors.ErrNoSnapshot
	}
	return snap, nil
}

// Refresh runs one complete metrics pass: load holdings, fetch all quotes
// in a single batched call, compute, publish. Concurrent callers share a
// single in-flight pass and all receive its result.
func (s *PortfolioService) Refresh(ctx context.Context) (*model.Snapshot, error) {
	v, err, _ := s.refresh.Do("refresh", func() (any, error) {
		return s.runPass(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Snapshot), nil
}

func (s *PortfolioService) runPass(ctx context.Context) (*model.Snapshot, error) {
	holdings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	tickers := make([]string, len(holdings))
	for i, h := range holdings {
		tickers[i] = h.Ticker
	}

	quotes, err := s.provider.FetchQuotes(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote snapshot: %w", err)
	}

	snapshot, err := ComputeTopLevel(holdings, quotes)
	if err != nil {
		return nil, err
	}
	snapshot.FetchedAt = time.Now().UTC()

	s.snapshot.Store(snapshot)
	s.logger.Info().
		Int("holdings", len(snapshot.Holdings)).
		Float64("currentValue", snapshot.Summary.CurrentValue).
		Msg("metrics pass completed")

	return snapshot, nil
}

// ImportCSV replaces the stored portfolio definition with the contents of
// a portfolio CSV. The import is all-or-nothing; on failure the previous
// definition is kept. The current snapshot is left untouched until the
// next metrics pass.
func (s *PortfolioService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	holdings, err := ParsePortfolioCSV(r)
	if err != nil {
		return 0, err
	}

	if err := s.repo.ReplaceAll(ctx, holdings); err != nil {
		return 0, fmt.Errorf("failed to store portfolio: %w", err)
	}

	s.logger.Info().Int("holdings", len(holdings)).Msg("portfolio imported")
	return len(holdings), nil
}

// HoldingCount returns the number of holdings in the stored portfolio
// definition.
func (s *PortfolioService) HoldingCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// LookThrough computes a consolidated ranking of the portfolio's
// underlying exposure, grouped by the given mode and truncated to limit
// entries.
//
// Constituent files are parsed fresh on every query; rows a file parse
// skips are logged and contained, but an unreadable or structurally
// broken file fails the whole query. Requires a completed metrics pass
// for the holding weights.
func (s *PortfolioService) LookThrough(ctx context.Context, mode model.RankMode, limit int) ([]model.RankedWeight, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidLimit, limit)
	}

	snapshot, err := s.CurrentSnapshot()
	if err != nil {
		return nil, err
	}

	holdings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	constituents := make(map[string][]model.Constituent, len(holdings))
	for _, h := range holdings {
		if h.HoldingsFile == "" {
			continue
		}

		path := filepath.Join(s.holdingsDir, h.HoldingsFile)
		parsed, report, err := vendorfile.ParseFile(path, h.Issuer)
		if err != nil {
			return nil, fmt.Errorf("failed to parse constituents for %s: %w", h.Ticker, err)
		}

		for _, skipped := range report.Skipped {
			s.logger.Warn().
				Str("ticker", h.Ticker).
				Str("file", h.HoldingsFile).
				Int("line", skipped.Line).
				Str("reason", skipped.Reason).
				Msg("skipped constituent row")
		}

		constituents[h.Ticker] = parsed
	}

	return ComputeLookThrough(snapshot, constituents, mode, limit), nil
}
