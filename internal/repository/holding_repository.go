package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Azcobu/portdash/internal/model"
)

// HoldingRepository provides data access methods for the holding table,
// which stores the static portfolio definition. Derived metrics are never
// written here; they live only in the in-memory snapshot.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided
// database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// ReplaceAll atomically replaces the stored portfolio definition with the
// given holdings. The operation is transactional: either the whole new
// portfolio lands or the old one is left untouched.
func (r *HoldingRepository) ReplaceAll(ctx context.Context, holdings []model.Holding) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM holding`); err != nil {
		return fmt.Errorf("failed to clear holding table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO holding (id, position, ticker, units, total_paid, issuer, holdings_file)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare holding insert: %w", err)
	}
	defer stmt.Close()

	for _, h := range holdings {
		if _, err := stmt.ExecContext(ctx, h.ID, h.Position, h.Ticker, h.Units, h.TotalPaid, string(h.Issuer), h.HoldingsFile); err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit holding replacement: %w", err)
	}
	return nil
}

// List retrieves the stored portfolio definition in source order.
// Returns an empty slice when no portfolio has been imported yet.
func (r *HoldingRepository) List(ctx context.Context) ([]model.Holding, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, position, ticker, units, total_paid, issuer, holdings_file
		FROM holding
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		var h model.Holding
		var issuer string
		if err := rows.Scan(&h.ID, &h.Position, &h.Ticker, &h.Units, &h.TotalPaid, &issuer, &h.HoldingsFile); err != nil {
			return nil, fmt.Errorf("failed to scan holding row: %w", err)
		}
		h.Issuer = model.Issuer(issuer)
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}
	return holdings, nil
}

// Count returns the number of stored holdings.
func (r *HoldingRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM holding`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count holdings: %w", err)
	}
	return count, nil
}
