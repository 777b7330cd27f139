package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/application/port"
	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
	"github.com/procuredesk/order-reconciliation/internal/reconcile"
)

// ErrMissingOrderReference is returned when a confirmation carries no
// purchase order reference and can therefore not be reconciled.
var ErrMissingOrderReference = errors.New("confirmation has no order reference")

// ReconciliationService runs order/confirmation comparisons and persists
// the outcomes.
type ReconciliationService interface {
	ReconcileConfirmation(ctx context.Context, confirmationID string) (*entity.ReconciliationResult, error)
	ReconcilePending(ctx context.Context) ([]*entity.ReconciliationResult, error)
	GetResult(ctx context.Context, id string) (*entity.ReconciliationResult, error)
	ListResults(ctx context.Context, status string) ([]*entity.ReconciliationResult, error)
}

type reconciliationServiceImpl struct {
	store      port.RecordStore
	resultRepo port.ResultRepository
	tolerances reconcile.Config
	logger     *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	store port.RecordStore,
	resultRepo port.ResultRepository,
	tolerances reconcile.Config,
	logger *zap.Logger,
) ReconciliationService {
	return &reconciliationServiceImpl{
		store:      store,
		resultRepo: resultRepo,
		tolerances: tolerances,
		logger:     logger,
	}
}

// ReconcileConfirmation compares one confirmation against its referenced
// purchase order and writes the result to the store.
func (s *reconciliationServiceImpl) ReconcileConfirmation(ctx context.Context, confirmationID string) (*entity.ReconciliationResult, error) {
	confirmation, err := s.store.GetOrderConfirmation(ctx, confirmationID)
	if err != nil {
		return nil, fmt.Errorf("fetch confirmation: %w", err)
	}
	if confirmation.OrderID == "" {
		return nil, fmt.Errorf("%w: confirmation %s", ErrMissingOrderReference, confirmationID)
	}

	order, err := s.store.GetPurchaseOrder(ctx, confirmation.OrderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", confirmation.OrderID, err)
	}

	result, err := reconcile.Reconcile(order, confirmation, s.tolerances)
	if err != nil {
		return nil, err
	}

	id, err := s.store.CreateResult(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}
	result.ID = id

	// The store is the system of record; a failed audit write is logged
	// but does not fail the reconciliation.
	if err := s.resultRepo.Upsert(ctx, result); err != nil {
		s.logger.Warn("Audit write failed for result", zap.String("id", id), zap.Error(err))
	}

	s.logger.Info("Confirmation reconciled",
		zap.String("confirmation_id", confirmationID),
		zap.String("order_id", order.ID),
		zap.String("result_id", id),
		zap.Bool("deviations", result.DeviationsPresent))

	return result, nil
}

// ReconcilePending reconciles every confirmation that has no result yet.
// Per-confirmation failures are logged and skipped so one bad record does
// not stall the run.
func (s *reconciliationServiceImpl) ReconcilePending(ctx context.Context) ([]*entity.ReconciliationResult, error) {
	confirmations, err := s.store.ListOrderConfirmations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list confirmations: %w", err)
	}

	existing, err := s.store.ListResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	reconciled := make(map[string]bool, len(existing))
	for _, r := range existing {
		reconciled[r.ConfirmationID] = true
	}

	var results []*entity.ReconciliationResult
	for _, confirmation := range confirmations {
		if reconciled[confirmation.ID] {
			continue
		}

		result, err := s.ReconcileConfirmation(ctx, confirmation.ID)
		if err != nil {
			s.logger.Warn("Skipping confirmation",
				zap.String("confirmation_id", confirmation.ID),
				zap.Error(err))
			continue
		}
		results = append(results, result)
	}

	s.logger.Info("Reconciliation run completed",
		zap.Int("confirmations", len(confirmations)),
		zap.Int("reconciled", len(results)))

	return results, nil
}

// GetResult fetches one result from the store.
func (s *reconciliationServiceImpl) GetResult(ctx context.Context, id string) (*entity.ReconciliationResult, error) {
	return s.store.GetResult(ctx, id)
}

// ListResults fetches all results, optionally filtered by workflow status.
func (s *reconciliationServiceImpl) ListResults(ctx context.Context, status string) ([]*entity.ReconciliationResult, error) {
	results, err := s.store.ListResults(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return results, nil
	}

	filtered := make([]*entity.ReconciliationResult, 0, len(results))
	for _, r := range results {
		if r.Status == status {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}
