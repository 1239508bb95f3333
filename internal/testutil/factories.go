package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/Azcobu/portdash/internal/model"
	"github.com/Azcobu/portdash/internal/repository"
)

// NewHolding creates a Holding value with sensible defaults for tests.
// Position defaults to 0; use StoreHoldings for ordered sets.
func NewHolding(ticker string, units int64, totalPaid float64) model.Holding {
	return model.Holding{
		ID:        uuid.New().String(),
		Ticker:    ticker,
		Units:     units,
		TotalPaid: totalPaid,
		Issuer:    model.IssuerBetashares,
	}
}

// StoreHoldings writes the given holdings to the test database in order,
// assigning positions by index.
func StoreHoldings(t *testing.T, db *sql.DB, holdings []model.Holding) {
	t.Helper()

	for i := range holdings {
		holdings[i].Position = i
		if holdings[i].ID == "" {
			holdings[i].ID = uuid.New().String()
		}
	}

	repo := repository.NewHoldingRepository(db)
	if err := repo.ReplaceAll(context.Background(), holdings); err != nil {
		t.Fatalf("Failed to store test holdings: %v", err)
	}
}

// Quote creates a PriceQuote for tests.
func Quote(price, previousClose, changePct float64) model.PriceQuote {
	return model.PriceQuote{
		Price:         price,
		PreviousClose: previousClose,
		ChangePct:     changePct,
	}
}
