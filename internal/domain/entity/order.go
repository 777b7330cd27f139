package entity

import "time"

// PurchaseOrder is the buyer's original order record. It is created by
// procurement and never mutated by the reconciliation engine.
type PurchaseOrder struct {
	ID                 string     `json:"id"`
	OrderNumber        string     `json:"order_number"`
	OrderDate          *time.Time `json:"order_date,omitempty"`
	Supplier           string     `json:"supplier"`
	ArticleNumber      string     `json:"article_number"`
	ArticleDescription string     `json:"article_description"`
	Quantity           *float64   `json:"quantity,omitempty"`
	Unit               string     `json:"unit"`
	UnitPrice          *float64   `json:"unit_price,omitempty"`
	TotalPrice         *float64   `json:"total_price,omitempty"`
	ExpectedDelivery   *time.Time `json:"expected_delivery,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}
