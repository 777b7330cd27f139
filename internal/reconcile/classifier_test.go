package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

func tptr(t time.Time) *time.Time { return &t }

func baseOrder() *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:               "ord-1",
		ArticleNumber:    "A-100",
		Quantity:         fptr(100),
		Unit:             "pcs",
		UnitPrice:        fptr(10),
		ExpectedDelivery: tptr(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)),
	}
}

func baseConfirmation() *entity.OrderConfirmation {
	return &entity.OrderConfirmation{
		ID:            "conf-1",
		OrderID:       "ord-1",
		ArticleNumber: "A-100",
		Quantity:      fptr(100),
		Unit:          "pcs",
		UnitPrice:     fptr(10),
		DeliveryDate:  tptr(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)),
	}
}

func TestClassify_NoDeviations(t *testing.T) {
	facts := Classify(baseOrder(), baseConfirmation())

	assert.Empty(t, facts.Types())
	assert.False(t, facts.Quantity.Differs)
	assert.False(t, facts.Price.Differs)
	assert.False(t, facts.ArticleNumberDiffers)
	assert.False(t, facts.DeliveryDateDiffers)
}

func TestClassify_ArticleNumberNormalized(t *testing.T) {
	// Case and surrounding whitespace are not deviations.
	conf := baseConfirmation()
	conf.ArticleNumber = "  a-100 "

	facts := Classify(baseOrder(), conf)

	assert.False(t, facts.ArticleNumberDiffers)
	assert.Empty(t, facts.Types())
}

func TestClassify_ArticleNumberDiffers(t *testing.T) {
	conf := baseConfirmation()
	conf.ArticleNumber = "B-200"

	facts := Classify(baseOrder(), conf)

	assert.True(t, facts.ArticleNumberDiffers)
	assert.Contains(t, facts.Types(), entity.DeviationArticleNumber)
}

func TestClassify_DeliveryDateCalendarEquality(t *testing.T) {
	// Same calendar day at a different clock time is not a deviation.
	conf := baseConfirmation()
	conf.DeliveryDate = tptr(time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC))

	facts := Classify(baseOrder(), conf)
	assert.False(t, facts.DeliveryDateDiffers)

	conf.DeliveryDate = tptr(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	facts = Classify(baseOrder(), conf)
	assert.True(t, facts.DeliveryDateDiffers)
	assert.Contains(t, facts.Types(), entity.DeviationDeliveryDate)
}

func TestClassify_QuantityAndPrice(t *testing.T) {
	conf := baseConfirmation()
	conf.Quantity = fptr(95)
	conf.UnitPrice = fptr(12)

	facts := Classify(baseOrder(), conf)

	assert.True(t, facts.Quantity.Differs)
	assert.True(t, facts.Price.Differs)
	assert.ElementsMatch(t,
		[]entity.DeviationType{entity.DeviationQuantity, entity.DeviationPrice},
		facts.Types())
}

func TestClassify_AbsentValuesAreNotDeviations(t *testing.T) {
	conf := baseConfirmation()
	conf.Quantity = nil
	conf.UnitPrice = nil

	facts := Classify(baseOrder(), conf)

	assert.False(t, facts.Quantity.Differs)
	assert.False(t, facts.Price.Differs)
	assert.Nil(t, facts.Quantity.Actual)
}

func TestClassify_UnitMismatchIsStructural(t *testing.T) {
	// Ordered in pieces, confirmed in boxes: the quantities are not
	// comparable, so the quantity dimension deviates without a numeric
	// pair for tolerance banding.
	conf := baseConfirmation()
	conf.Unit = "boxes"

	facts := Classify(baseOrder(), conf)

	assert.True(t, facts.UnitMismatch)
	assert.True(t, facts.Quantity.Differs)
	assert.Nil(t, facts.Quantity.Expected)
	assert.Nil(t, facts.Quantity.Actual)
	assert.Contains(t, facts.Types(), entity.DeviationQuantity)
}

func TestClassify_EmptyUnitIsNotAMismatch(t *testing.T) {
	conf := baseConfirmation()
	conf.Unit = ""

	facts := Classify(baseOrder(), conf)

	assert.False(t, facts.UnitMismatch)
	assert.False(t, facts.Quantity.Differs)
}
