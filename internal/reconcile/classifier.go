package reconcile

import (
	"strings"
	"time"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

// NumericPair holds the (expected, actual) values of one tolerance-banded
// dimension. Absent values stay nil so downstream evaluation can tell
// "no data" from "zero".
type NumericPair struct {
	Expected *float64
	Actual   *float64
	Differs  bool
}

// Facts are the raw field-level comparison results between an order and
// its confirmation, before any tolerance banding.
type Facts struct {
	Quantity NumericPair
	Price    NumericPair

	ArticleNumberDiffers bool
	DeliveryDateDiffers  bool

	// UnitMismatch marks ordered and confirmed quantities expressed in
	// different units. The quantities are then not comparable; the
	// quantity dimension is flagged as a structural deviation and its
	// numeric pair is withheld from tolerance evaluation.
	UnitMismatch bool
}

// Types returns the set of deviation tags where the dimensions differ.
func (f Facts) Types() []entity.DeviationType {
	var types []entity.DeviationType
	if f.Quantity.Differs {
		types = append(types, entity.DeviationQuantity)
	}
	if f.Price.Differs {
		types = append(types, entity.DeviationPrice)
	}
	if f.ArticleNumberDiffers {
		types = append(types, entity.DeviationArticleNumber)
	}
	if f.DeliveryDateDiffers {
		types = append(types, entity.DeviationDeliveryDate)
	}
	return types
}

// Classify compares a purchase order against its confirmation field by
// field. It makes no tolerance judgment; it only records which dimensions
// differ and carries the numeric pairs for the evaluator.
func Classify(order *entity.PurchaseOrder, confirmation *entity.OrderConfirmation) Facts {
	var facts Facts

	if unitsMismatch(order.Unit, confirmation.Unit) {
		facts.UnitMismatch = true
		facts.Quantity = NumericPair{Differs: true}
	} else {
		facts.Quantity = compareNumeric(order.Quantity, confirmation.Quantity)
	}

	facts.Price = compareNumeric(order.UnitPrice, confirmation.UnitPrice)
	facts.ArticleNumberDiffers = normalizeArticleNumber(order.ArticleNumber) != normalizeArticleNumber(confirmation.ArticleNumber)
	facts.DeliveryDateDiffers = datesDiffer(order.ExpectedDelivery, confirmation.DeliveryDate)

	return facts
}

// compareNumeric flags a difference only when both sides carry a value.
// A missing value on either side is no basis for a deviation claim.
func compareNumeric(expected, actual *float64) NumericPair {
	pair := NumericPair{Expected: expected, Actual: actual}
	if expected != nil && actual != nil {
		pair.Differs = *expected != *actual
	}
	return pair
}

func unitsMismatch(orderUnit, confirmedUnit string) bool {
	a := strings.ToLower(strings.TrimSpace(orderUnit))
	b := strings.ToLower(strings.TrimSpace(confirmedUnit))
	return a != "" && b != "" && a != b
}

func normalizeArticleNumber(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// datesDiffer compares calendar dates, not timestamps.
func datesDiffer(expected, actual *time.Time) bool {
	if expected == nil || actual == nil {
		return false
	}
	ey, em, ed := expected.Date()
	ay, am, ad := actual.Date()
	return ey != ay || em != am || ed != ad
}
