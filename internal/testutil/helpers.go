package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Azcobu/portdash/internal/repository"
	"github.com/Azcobu/portdash/internal/service"
)

// NewTestPortfolioService wires a PortfolioService over the test database
// with the given quote provider and a temporary holdings directory.
func NewTestPortfolioService(t *testing.T, db *sql.DB, provider service.QuoteProvider) (*service.PortfolioService, string) {
	t.Helper()

	holdingsDir := t.TempDir()
	repo := repository.NewHoldingRepository(db)
	svc := service.NewPortfolioService(repo, provider, holdingsDir, zerolog.Nop())
	return svc, holdingsDir
}

// WriteHoldingsFile writes a constituent export fixture into the holdings
// directory and returns its filename.
func WriteHoldingsFile(t *testing.T, holdingsDir, name, content string) string {
	t.Helper()

	if err := os.WriteFile(filepath.Join(holdingsDir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write holdings file fixture: %v", err)
	}
	return name
}

// BetasharesFile builds a minimal Betashares constituent export: six
// preamble lines, the header row, then the given data rows.
func BetasharesFile(rows ...string) string {
	content := "Betashares Portfolio Holdings\n" +
		"Fund,A200\n" +
		"As at,2026-08-28\n" +
		"\n" +
		"All figures in AUD\n" +
		"\n" +
		"Ticker,Name,Asset Class,Sector,Country,Currency,Weight (%),Shares/Units (#),Market Value (AUD),Notional Value (AUD)\n"
	for _, row := range rows {
		content += row + "\n"
	}
	return content
}

// VanguardFile builds a minimal Vanguard constituent export: three
// preamble lines, the header row, then the given data rows.
func VanguardFile(rows ...string) string {
	content := "Vanguard fund holdings\n" +
		"As at 28 August 2026\n" +
		"\n" +
		"\"Holding Name\",Ticker,Sector,\"Country code\",\"% of net assets\",\"Market value (AUD)\",\"# of units\"\n"
	for _, row := range rows {
		content += row + "\n"
	}
	return content
}
