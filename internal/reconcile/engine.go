package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
	"github.com/procuredesk/order-reconciliation/internal/domain/workflow"
)

// Config carries the tolerance thresholds for one reconciliation run.
// Thresholds are percentages and come from configuration, never from code.
type Config struct {
	QuantityTolerancePercent float64
	PriceTolerancePercent    float64
}

// Reconcile compares one purchase order with its confirmation and produces
// a reconciliation result. Article-number and delivery-date deviations are
// binary; only quantity and price are tolerance-banded.
//
// The result always starts in the open state. A result without deviations
// is still produced for the audit trail; whether it surfaces as requiring
// attention is a presentation concern.
//
// Reconcile is pure and idempotent: identical inputs and config yield an
// identical result apart from the reconciliation timestamp.
func Reconcile(order *entity.PurchaseOrder, confirmation *entity.OrderConfirmation, cfg Config) (*entity.ReconciliationResult, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: order is missing", ErrInvalidInput)
	}
	if confirmation == nil {
		return nil, fmt.Errorf("%w: confirmation is missing", ErrInvalidInput)
	}
	if confirmation.OrderID == "" || confirmation.OrderID != order.ID {
		return nil, fmt.Errorf("%w: confirmation %s references order %q, not %q",
			ErrInvalidInput, confirmation.ID, confirmation.OrderID, order.ID)
	}

	facts := Classify(order, confirmation)
	quantity := EvaluateTolerance(facts.Quantity.Expected, facts.Quantity.Actual, cfg.QuantityTolerancePercent)
	price := EvaluateTolerance(facts.Price.Expected, facts.Price.Actual, cfg.PriceTolerancePercent)

	types := facts.Types()

	return &entity.ReconciliationResult{
		OrderID:        order.ID,
		ConfirmationID: confirmation.ID,
		ReconciledAt:   time.Now(),

		DeviationsPresent: len(types) > 0,
		DeviationTypes:    types,

		QuantityDeviation:        quantity.AbsoluteDeviation,
		QuantityDeviationPercent: quantity.PercentDeviation,
		PriceDeviation:           price.AbsoluteDeviation,
		PriceDeviationPercent:    price.PercentDeviation,

		OrderArticleNumber:        order.ArticleNumber,
		ConfirmationArticleNumber: confirmation.ArticleNumber,

		QuantityTolerancePercent: cfg.QuantityTolerancePercent,
		PriceTolerancePercent:    cfg.PriceTolerancePercent,
		WithinQuantityTolerance:  quantity.WithinTolerance,
		WithinPriceTolerance:     price.WithinTolerance,

		Justification: buildJustification(facts, quantity, price),
		Status:        workflow.StateOpen.String(),
	}, nil
}

// buildJustification summarizes the detected deviations for reviewers.
func buildJustification(facts Facts, quantity, price Verdict) string {
	var parts []string

	if facts.UnitMismatch {
		parts = append(parts, "quantity units differ, values not comparable")
	} else if facts.Quantity.Differs && quantity.PercentDeviation != nil {
		parts = append(parts, fmt.Sprintf("quantity deviates by %.2f%%", *quantity.PercentDeviation))
	}

	if facts.Price.Differs && price.PercentDeviation != nil {
		parts = append(parts, fmt.Sprintf("unit price deviates by %.2f%%", *price.PercentDeviation))
	}
	if facts.ArticleNumberDiffers {
		parts = append(parts, "article numbers differ")
	}
	if facts.DeliveryDateDiffers {
		parts = append(parts, "delivery dates differ")
	}

	if len(parts) == 0 {
		return "no deviations detected"
	}
	return strings.Join(parts, "; ")
}
