package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
	"github.com/procuredesk/order-reconciliation/internal/domain/workflow"
)

func testConfig() Config {
	return Config{QuantityTolerancePercent: 10, PriceTolerancePercent: 5}
}

func TestReconcile_CleanMatch(t *testing.T) {
	result, err := Reconcile(baseOrder(), baseConfirmation(), testConfig())
	require.NoError(t, err)

	assert.False(t, result.DeviationsPresent)
	assert.Empty(t, result.DeviationTypes)
	assert.True(t, result.WithinQuantityTolerance)
	assert.True(t, result.WithinPriceTolerance)
	assert.Equal(t, workflow.StateOpen.String(), result.Status)
	assert.Equal(t, "ord-1", result.OrderID)
	assert.Equal(t, "conf-1", result.ConfirmationID)
}

func TestReconcile_QuantityWithinTolerance(t *testing.T) {
	// 100 ordered, 95 confirmed, 10% threshold: the quantity differs but
	// stays inside the band. The tag set records the raw difference; the
	// verdict records the tolerance.
	conf := baseConfirmation()
	conf.Quantity = fptr(95)

	result, err := Reconcile(baseOrder(), conf, testConfig())
	require.NoError(t, err)

	require.NotNil(t, result.QuantityDeviationPercent)
	assert.Equal(t, -5.0, *result.QuantityDeviationPercent)
	assert.True(t, result.WithinQuantityTolerance)
	assert.True(t, result.DeviationsPresent)
	assert.Contains(t, result.DeviationTypes, entity.DeviationQuantity)
}

func TestReconcile_PriceOutOfTolerance(t *testing.T) {
	conf := baseConfirmation()
	conf.UnitPrice = fptr(12)

	result, err := Reconcile(baseOrder(), conf, testConfig())
	require.NoError(t, err)

	require.NotNil(t, result.PriceDeviationPercent)
	assert.InDelta(t, 20.0, *result.PriceDeviationPercent, 1e-9)
	assert.False(t, result.WithinPriceTolerance)
	assert.True(t, result.DeviationsPresent)
	assert.Contains(t, result.DeviationTypes, entity.DeviationPrice)
	assert.Equal(t, workflow.StateOpen.String(), result.Status)
	assert.True(t, result.Critical())
}

func TestReconcile_DeviationsPresentMatchesTagSet(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.OrderConfirmation)
	}{
		{"none", func(c *entity.OrderConfirmation) {}},
		{"quantity", func(c *entity.OrderConfirmation) { c.Quantity = fptr(50) }},
		{"article number", func(c *entity.OrderConfirmation) { c.ArticleNumber = "X-9" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := baseConfirmation()
			tt.mutate(conf)

			result, err := Reconcile(baseOrder(), conf, testConfig())
			require.NoError(t, err)

			assert.Equal(t, len(result.DeviationTypes) > 0, result.DeviationsPresent)
		})
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	conf := baseConfirmation()
	conf.Quantity = fptr(80)
	conf.UnitPrice = fptr(11)

	a, err := Reconcile(baseOrder(), conf, testConfig())
	require.NoError(t, err)
	b, err := Reconcile(baseOrder(), conf, testConfig())
	require.NoError(t, err)

	// Identical apart from the reconciliation timestamp.
	b.ReconciledAt = a.ReconciledAt
	assert.Equal(t, a, b)
}

func TestReconcile_InvalidInput(t *testing.T) {
	order := baseOrder()
	conf := baseConfirmation()

	_, err := Reconcile(nil, conf, testConfig())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Reconcile(order, nil, testConfig())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReconcile_ReferentialMismatch(t *testing.T) {
	conf := baseConfirmation()
	conf.OrderID = "ord-2"

	result, err := Reconcile(baseOrder(), conf, testConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Nil(t, result, "no partial result on invalid input")
}

func TestReconcile_UnitMismatchSkipsBanding(t *testing.T) {
	conf := baseConfirmation()
	conf.Unit = "boxes"
	conf.Quantity = fptr(4)

	result, err := Reconcile(baseOrder(), conf, testConfig())
	require.NoError(t, err)

	assert.Contains(t, result.DeviationTypes, entity.DeviationQuantity)
	assert.Nil(t, result.QuantityDeviationPercent)
	assert.True(t, result.WithinQuantityTolerance)
	assert.False(t, result.Critical())
}
