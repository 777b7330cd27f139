package port

import (
	"context"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

// ResultRepository defines audit persistence for reconciliation results.
type ResultRepository interface {
	Upsert(ctx context.Context, result *entity.ReconciliationResult) error
	GetByID(ctx context.Context, id string) (*entity.ReconciliationResult, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.ReconciliationResult, error)
	All(ctx context.Context) ([]*entity.ReconciliationResult, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// DecisionRepository defines audit persistence for review decisions.
type DecisionRepository interface {
	Create(ctx context.Context, decision *entity.ReviewDecision) error
	ListByResult(ctx context.Context, resultID string) ([]*entity.ReviewDecision, error)
}
