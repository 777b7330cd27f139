package entity

import "time"

// DeviationType tags one dimension in which an order and its confirmation
// disagree.
type DeviationType string

const (
	DeviationQuantity      DeviationType = "QUANTITY"
	DeviationPrice         DeviationType = "PRICE"
	DeviationArticleNumber DeviationType = "ARTICLE_NUMBER"
	DeviationDeliveryDate  DeviationType = "DELIVERY_DATE"
)

// ReconciliationResult is the computed comparison between a purchase order
// and its confirmation. Only the Status field is mutated after creation,
// and only through the review workflow.
//
// Numeric deviations are pointers: absent means the dimension could not be
// evaluated (missing data or a zero expected value), which is distinct
// from a deviation of zero.
type ReconciliationResult struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	ConfirmationID string    `json:"confirmation_id"`
	ReconciledAt   time.Time `json:"reconciled_at"`

	DeviationsPresent bool            `json:"deviations_present"`
	DeviationTypes    []DeviationType `json:"deviation_types"`

	QuantityDeviation        *float64 `json:"quantity_deviation,omitempty"`
	QuantityDeviationPercent *float64 `json:"quantity_deviation_percent,omitempty"`
	PriceDeviation           *float64 `json:"price_deviation,omitempty"`
	PriceDeviationPercent    *float64 `json:"price_deviation_percent,omitempty"`

	OrderArticleNumber        string `json:"order_article_number"`
	ConfirmationArticleNumber string `json:"confirmation_article_number"`

	QuantityTolerancePercent float64 `json:"quantity_tolerance_percent"`
	PriceTolerancePercent    float64 `json:"price_tolerance_percent"`
	WithinQuantityTolerance  bool    `json:"within_quantity_tolerance"`
	WithinPriceTolerance     bool    `json:"within_price_tolerance"`

	Justification string `json:"justification"`
	Status        string `json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// HasDeviation reports whether the result carries the given deviation type.
func (r *ReconciliationResult) HasDeviation(t DeviationType) bool {
	for _, dt := range r.DeviationTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// Critical reports whether any tolerance-banded dimension is out of
// tolerance. Binary deviations (article number, delivery date) are never
// critical on their own.
func (r *ReconciliationResult) Critical() bool {
	if !r.WithinQuantityTolerance && r.QuantityDeviationPercent != nil {
		return true
	}
	if !r.WithinPriceTolerance && r.PriceDeviationPercent != nil {
		return true
	}
	return false
}
