package port

import (
	"context"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

// RecordStore defines the operations the services need against the external
// record store that owns orders, confirmations, results and decisions.
type RecordStore interface {
	GetPurchaseOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]*entity.PurchaseOrder, error)

	GetOrderConfirmation(ctx context.Context, id string) (*entity.OrderConfirmation, error)
	ListOrderConfirmations(ctx context.Context) ([]*entity.OrderConfirmation, error)
	CreateOrderConfirmation(ctx context.Context, confirmation *entity.OrderConfirmation) (string, error)

	GetResult(ctx context.Context, id string) (*entity.ReconciliationResult, error)
	ListResults(ctx context.Context) ([]*entity.ReconciliationResult, error)
	CreateResult(ctx context.Context, result *entity.ReconciliationResult) (string, error)
	UpdateResultStatus(ctx context.Context, id, status string) error

	CreateDecision(ctx context.Context, decision *entity.ReviewDecision) (string, error)
	ListDecisions(ctx context.Context) ([]*entity.ReviewDecision, error)
}

// ConfirmationExtractor extracts structured confirmation data from a PDF
// document.
type ConfirmationExtractor interface {
	Extract(ctx context.Context, pdf []byte) (*entity.OrderConfirmation, error)
}
