package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

func TestOverview_Empty(t *testing.T) {
	svc := NewStatsService(newMockStore(), zap.NewNop())

	stats, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.DeviationTypes)
	assert.Zero(t, stats.AvgDeviationPercent)
}

func TestOverview_Aggregates(t *testing.T) {
	store := newMockStore()
	store.results["r1"] = &entity.ReconciliationResult{
		ID: "r1", Status: "OPEN",
		DeviationsPresent:        true,
		DeviationTypes:           []entity.DeviationType{entity.DeviationQuantity},
		QuantityDeviationPercent: fptr(-5),
		WithinQuantityTolerance:  true,
		WithinPriceTolerance:     true,
	}
	store.results["r2"] = &entity.ReconciliationResult{
		ID: "r2", Status: "IN_REVIEW",
		DeviationsPresent:       true,
		DeviationTypes:          []entity.DeviationType{entity.DeviationPrice, entity.DeviationQuantity},
		PriceDeviationPercent:   fptr(15),
		WithinQuantityTolerance: true,
	}
	store.results["r3"] = &entity.ReconciliationResult{
		ID: "r3", Status: "APPROVED",
		WithinQuantityTolerance: true,
		WithinPriceTolerance:    true,
	}
	store.results["r4"] = &entity.ReconciliationResult{
		ID: "r4", Status: "REJECTED",
		DeviationsPresent:       true,
		DeviationTypes:          []entity.DeviationType{entity.DeviationArticleNumber},
		WithinQuantityTolerance: true,
		WithinPriceTolerance:    true,
	}

	svc := NewStatsService(store, zap.NewNop())

	stats, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 1, stats.InReview)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 3, stats.WithDeviations)
	assert.Equal(t, 1, stats.Critical, "only r2 is out of tolerance with a percent value")
	assert.Equal(t, 3, stats.WithinTolerance)
	assert.Equal(t, 2, stats.DeviationTypes["QUANTITY"])
	assert.Equal(t, 1, stats.DeviationTypes["PRICE"])
	assert.Equal(t, 1, stats.DeviationTypes["ARTICLE_NUMBER"])

	// abs(-5) and abs(15) pooled.
	assert.InDelta(t, 10.0, stats.AvgDeviationPercent, 1e-9)
}
