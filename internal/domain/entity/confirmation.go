package entity

import "time"

// OrderConfirmation is the supplier-provided confirmation of a purchase
// order. It references the order it confirms and is a read-only input to
// reconciliation. Quantities, prices and dates may be absent when the
// supplier document did not state them.
type OrderConfirmation struct {
	ID                 string     `json:"id"`
	OrderID            string     `json:"order_id"`
	ArticleNumber      string     `json:"article_number"`
	ArticleDescription string     `json:"article_description"`
	Quantity           *float64   `json:"quantity,omitempty"`
	Unit               string     `json:"unit"`
	UnitPrice          *float64   `json:"unit_price,omitempty"`
	TotalPrice         *float64   `json:"total_price,omitempty"`
	DeliveryDate       *time.Time `json:"delivery_date,omitempty"`
	SupplierName       string     `json:"supplier_name"`
	ConfirmationNumber string     `json:"confirmation_number"`
	ConfirmationDate   *time.Time `json:"confirmation_date,omitempty"`
	PDFDocument        string     `json:"pdf_document,omitempty"`
	ExtractedAt        *time.Time `json:"extracted_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}
