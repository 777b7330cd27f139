package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

// ResultRepository mirrors reconciliation results into the local audit
// database. The record store remains the system of record; this table is
// written after each successful store write.
type ResultRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *sql.DB, logger *zap.Logger) *ResultRepository {
	return &ResultRepository{db: db, logger: logger}
}

// Upsert inserts or replaces the audit row for a result. Re-running a
// reconciliation overwrites the previous row for the same record id.
func (r *ResultRepository) Upsert(ctx context.Context, result *entity.ReconciliationResult) error {
	query := `
		INSERT INTO reconciliation_results (
			id, order_id, confirmation_id, reconciled_at, deviations_present,
			deviation_types, quantity_deviation, quantity_deviation_percent,
			price_deviation, price_deviation_percent, order_article_number,
			confirmation_article_number, quantity_tolerance_percent,
			price_tolerance_percent, within_quantity_tolerance,
			within_price_tolerance, justification, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			reconciled_at = excluded.reconciled_at,
			deviations_present = excluded.deviations_present,
			deviation_types = excluded.deviation_types,
			quantity_deviation = excluded.quantity_deviation,
			quantity_deviation_percent = excluded.quantity_deviation_percent,
			price_deviation = excluded.price_deviation,
			price_deviation_percent = excluded.price_deviation_percent,
			order_article_number = excluded.order_article_number,
			confirmation_article_number = excluded.confirmation_article_number,
			quantity_tolerance_percent = excluded.quantity_tolerance_percent,
			price_tolerance_percent = excluded.price_tolerance_percent,
			within_quantity_tolerance = excluded.within_quantity_tolerance,
			within_price_tolerance = excluded.within_price_tolerance,
			justification = excluded.justification,
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		result.ID,
		result.OrderID,
		result.ConfirmationID,
		result.ReconciledAt,
		result.DeviationsPresent,
		joinTypes(result.DeviationTypes),
		result.QuantityDeviation,
		result.QuantityDeviationPercent,
		result.PriceDeviation,
		result.PriceDeviationPercent,
		result.OrderArticleNumber,
		result.ConfirmationArticleNumber,
		result.QuantityTolerancePercent,
		result.PriceTolerancePercent,
		result.WithinQuantityTolerance,
		result.WithinPriceTolerance,
		result.Justification,
		result.Status,
	)
	if err != nil {
		r.logger.Error("Failed to upsert result", zap.String("id", result.ID), zap.Error(err))
		return fmt.Errorf("failed to upsert result: %w", err)
	}
	return nil
}

// GetByID returns one audit row, or nil when none exists.
func (r *ResultRepository) GetByID(ctx context.Context, id string) (*entity.ReconciliationResult, error) {
	row := r.db.QueryRowContext(ctx, selectResults+" WHERE id = ?", id)

	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get result", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return result, nil
}

// ListByStatus returns all audit rows in a given workflow status.
func (r *ResultRepository) ListByStatus(ctx context.Context, status string) ([]*entity.ReconciliationResult, error) {
	return r.query(ctx, selectResults+" WHERE status = ? ORDER BY reconciled_at DESC", status)
}

// All returns every audit row, newest reconciliation first.
func (r *ResultRepository) All(ctx context.Context) ([]*entity.ReconciliationResult, error) {
	return r.query(ctx, selectResults+" ORDER BY reconciled_at DESC")
}

// UpdateStatus updates only the workflow status column.
func (r *ResultRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE reconciliation_results SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id)
	if err != nil {
		r.logger.Error("Failed to update result status",
			zap.String("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update result status: %w", err)
	}
	return nil
}

const selectResults = `
	SELECT id, order_id, confirmation_id, reconciled_at, deviations_present,
		deviation_types, quantity_deviation, quantity_deviation_percent,
		price_deviation, price_deviation_percent, order_article_number,
		confirmation_article_number, quantity_tolerance_percent,
		price_tolerance_percent, within_quantity_tolerance,
		within_price_tolerance, justification, status
	FROM reconciliation_results`

func (r *ResultRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.ReconciliationResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query results", zap.Error(err))
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*entity.ReconciliationResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (*entity.ReconciliationResult, error) {
	var result entity.ReconciliationResult
	var types string
	var qtyDev, qtyPct, priceDev, pricePct sql.NullFloat64

	err := row.Scan(
		&result.ID,
		&result.OrderID,
		&result.ConfirmationID,
		&result.ReconciledAt,
		&result.DeviationsPresent,
		&types,
		&qtyDev,
		&qtyPct,
		&priceDev,
		&pricePct,
		&result.OrderArticleNumber,
		&result.ConfirmationArticleNumber,
		&result.QuantityTolerancePercent,
		&result.PriceTolerancePercent,
		&result.WithinQuantityTolerance,
		&result.WithinPriceTolerance,
		&result.Justification,
		&result.Status,
	)
	if err != nil {
		return nil, err
	}

	result.DeviationTypes = splitTypes(types)
	if qtyDev.Valid {
		result.QuantityDeviation = &qtyDev.Float64
	}
	if qtyPct.Valid {
		result.QuantityDeviationPercent = &qtyPct.Float64
	}
	if priceDev.Valid {
		result.PriceDeviation = &priceDev.Float64
	}
	if pricePct.Valid {
		result.PriceDeviationPercent = &pricePct.Float64
	}
	return &result, nil
}

func joinTypes(types []entity.DeviationType) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ",")
}

func splitTypes(joined string) []entity.DeviationType {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	types := make([]entity.DeviationType, 0, len(parts))
	for _, p := range parts {
		types = append(types, entity.DeviationType(p))
	}
	return types
}
