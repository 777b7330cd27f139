package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
	"github.com/procuredesk/order-reconciliation/internal/reconcile"
)

func testTolerances() reconcile.Config {
	return reconcile.Config{QuantityTolerancePercent: 10, PriceTolerancePercent: 5}
}

func seedOrderAndConfirmation(store *mockStore) (*entity.PurchaseOrder, *entity.OrderConfirmation) {
	order := &entity.PurchaseOrder{
		ID:            "ord-1",
		OrderNumber:   "PO-2026-001",
		ArticleNumber: "A-100",
		Quantity:      fptr(100),
		Unit:          "pcs",
		UnitPrice:     fptr(10),
	}
	confirmation := &entity.OrderConfirmation{
		ID:            "conf-1",
		OrderID:       "ord-1",
		ArticleNumber: "A-100",
		Quantity:      fptr(100),
		Unit:          "pcs",
		UnitPrice:     fptr(10),
	}
	store.orders[order.ID] = order
	store.confirmations[confirmation.ID] = confirmation
	return order, confirmation
}

func TestReconcileConfirmation_PersistsResult(t *testing.T) {
	store := newMockStore()
	seedOrderAndConfirmation(store)
	repo := newMockResultRepo()

	svc := NewReconciliationService(store, repo, testTolerances(), zap.NewNop())

	result, err := svc.ReconcileConfirmation(context.Background(), "conf-1")
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.False(t, result.DeviationsPresent)
	assert.Len(t, store.results, 1)
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, result.ID, repo.upserts[0].ID)
}

func TestReconcileConfirmation_MissingOrderReference(t *testing.T) {
	store := newMockStore()
	store.confirmations["conf-1"] = &entity.OrderConfirmation{ID: "conf-1"}

	svc := NewReconciliationService(store, newMockResultRepo(), testTolerances(), zap.NewNop())

	_, err := svc.ReconcileConfirmation(context.Background(), "conf-1")
	assert.ErrorIs(t, err, ErrMissingOrderReference)
	assert.Empty(t, store.results)
}

func TestReconcileConfirmation_AuditFailureIsNotFatal(t *testing.T) {
	store := newMockStore()
	seedOrderAndConfirmation(store)
	repo := newMockResultRepo()
	repo.upsertErr = assert.AnError

	svc := NewReconciliationService(store, repo, testTolerances(), zap.NewNop())

	result, err := svc.ReconcileConfirmation(context.Background(), "conf-1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
}

func TestReconcilePending_SkipsAlreadyReconciled(t *testing.T) {
	store := newMockStore()
	seedOrderAndConfirmation(store)

	// Second confirmation already has a result.
	store.confirmations["conf-2"] = &entity.OrderConfirmation{
		ID:            "conf-2",
		OrderID:       "ord-1",
		ArticleNumber: "A-100",
		Quantity:      fptr(90),
		Unit:          "pcs",
	}
	store.results["res-existing"] = &entity.ReconciliationResult{
		ID:             "res-existing",
		OrderID:        "ord-1",
		ConfirmationID: "conf-2",
		Status:         "OPEN",
	}

	svc := NewReconciliationService(store, newMockResultRepo(), testTolerances(), zap.NewNop())

	results, err := svc.ReconcilePending(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "conf-1", results[0].ConfirmationID)
}

func TestReconcilePending_SkipsUnlinkedConfirmations(t *testing.T) {
	store := newMockStore()
	seedOrderAndConfirmation(store)
	store.confirmations["conf-orphan"] = &entity.OrderConfirmation{ID: "conf-orphan"}

	svc := NewReconciliationService(store, newMockResultRepo(), testTolerances(), zap.NewNop())

	results, err := svc.ReconcilePending(context.Background())
	require.NoError(t, err)

	// The orphan is skipped, the linked confirmation still goes through.
	require.Len(t, results, 1)
	assert.Equal(t, "conf-1", results[0].ConfirmationID)
}

func TestListResults_StatusFilter(t *testing.T) {
	store := newMockStore()
	store.results["r1"] = &entity.ReconciliationResult{ID: "r1", Status: "OPEN"}
	store.results["r2"] = &entity.ReconciliationResult{ID: "r2", Status: "APPROVED"}
	store.results["r3"] = &entity.ReconciliationResult{ID: "r3", Status: "OPEN"}

	svc := NewReconciliationService(store, newMockResultRepo(), testTolerances(), zap.NewNop())

	all, err := svc.ListResults(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	open, err := svc.ListResults(context.Background(), "OPEN")
	require.NoError(t, err)
	assert.Len(t, open, 2)
}
