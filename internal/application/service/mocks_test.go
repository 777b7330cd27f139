package service

import (
	"context"
	"fmt"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

// mockStore is a hand-rolled RecordStore backed by in-memory maps.
type mockStore struct {
	orders        map[string]*entity.PurchaseOrder
	confirmations map[string]*entity.OrderConfirmation
	results       map[string]*entity.ReconciliationResult
	decisions     []*entity.ReviewDecision

	nextID int

	createResultErr   error
	updateStatusErr   error
	createDecisionErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		orders:        make(map[string]*entity.PurchaseOrder),
		confirmations: make(map[string]*entity.OrderConfirmation),
		results:       make(map[string]*entity.ReconciliationResult),
	}
}

func (m *mockStore) GetPurchaseOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("order %s not found", id)
}

func (m *mockStore) ListPurchaseOrders(ctx context.Context) ([]*entity.PurchaseOrder, error) {
	var orders []*entity.PurchaseOrder
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

func (m *mockStore) GetOrderConfirmation(ctx context.Context, id string) (*entity.OrderConfirmation, error) {
	if c, ok := m.confirmations[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("confirmation %s not found", id)
}

func (m *mockStore) ListOrderConfirmations(ctx context.Context) ([]*entity.OrderConfirmation, error) {
	var confirmations []*entity.OrderConfirmation
	for _, c := range m.confirmations {
		confirmations = append(confirmations, c)
	}
	return confirmations, nil
}

func (m *mockStore) CreateOrderConfirmation(ctx context.Context, c *entity.OrderConfirmation) (string, error) {
	id := m.newID("conf")
	c.ID = id
	m.confirmations[id] = c
	return id, nil
}

func (m *mockStore) GetResult(ctx context.Context, id string) (*entity.ReconciliationResult, error) {
	if r, ok := m.results[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("result %s not found", id)
}

func (m *mockStore) ListResults(ctx context.Context) ([]*entity.ReconciliationResult, error) {
	var results []*entity.ReconciliationResult
	for _, r := range m.results {
		results = append(results, r)
	}
	return results, nil
}

func (m *mockStore) CreateResult(ctx context.Context, r *entity.ReconciliationResult) (string, error) {
	if m.createResultErr != nil {
		return "", m.createResultErr
	}
	id := m.newID("res")
	stored := *r
	stored.ID = id
	m.results[id] = &stored
	return id, nil
}

func (m *mockStore) UpdateResultStatus(ctx context.Context, id, status string) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	r, ok := m.results[id]
	if !ok {
		return fmt.Errorf("result %s not found", id)
	}
	r.Status = status
	return nil
}

func (m *mockStore) CreateDecision(ctx context.Context, d *entity.ReviewDecision) (string, error) {
	if m.createDecisionErr != nil {
		return "", m.createDecisionErr
	}
	id := m.newID("dec")
	d.ID = id
	m.decisions = append(m.decisions, d)
	return id, nil
}

func (m *mockStore) ListDecisions(ctx context.Context) ([]*entity.ReviewDecision, error) {
	return m.decisions, nil
}

func (m *mockStore) newID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// mockResultRepo records audit calls without a real database.
type mockResultRepo struct {
	upserts       []*entity.ReconciliationResult
	statusUpdates map[string]string
	upsertErr     error
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{statusUpdates: make(map[string]string)}
}

func (m *mockResultRepo) Upsert(ctx context.Context, r *entity.ReconciliationResult) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, r)
	return nil
}

func (m *mockResultRepo) GetByID(ctx context.Context, id string) (*entity.ReconciliationResult, error) {
	return nil, nil
}

func (m *mockResultRepo) ListByStatus(ctx context.Context, status string) ([]*entity.ReconciliationResult, error) {
	return nil, nil
}

func (m *mockResultRepo) All(ctx context.Context) ([]*entity.ReconciliationResult, error) {
	return m.upserts, nil
}

func (m *mockResultRepo) UpdateStatus(ctx context.Context, id, status string) error {
	m.statusUpdates[id] = status
	return nil
}

type mockDecisionRepo struct {
	created []*entity.ReviewDecision
}

func (m *mockDecisionRepo) Create(ctx context.Context, d *entity.ReviewDecision) error {
	m.created = append(m.created, d)
	return nil
}

func (m *mockDecisionRepo) ListByResult(ctx context.Context, resultID string) ([]*entity.ReviewDecision, error) {
	var decisions []*entity.ReviewDecision
	for _, d := range m.created {
		if d.ResultID == resultID {
			decisions = append(decisions, d)
		}
	}
	return decisions, nil
}

func fptr(v float64) *float64 { return &v }
