// Package recordstore talks to the external record store that owns the
// purchase order, confirmation, reconciliation result and review decision
// collections. Records travel as an id/timestamps envelope around a loose
// field bag; the codec in this package converts between that bag and the
// fixed-shape entity types so the core never sees wire fields.
package recordstore

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the store has no record with the given id.
var ErrNotFound = errors.New("record not found")

// Record is the store's generic envelope around one record.
type Record struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt *time.Time
	Fields    map[string]interface{}
}

// AppIDs holds the store-side collection identifiers.
type AppIDs struct {
	Orders        string
	Confirmations string
	Results       string
	Decisions     string
}

// rawRecord matches the store's JSON shape for a single record.
type rawRecord struct {
	ID        string                 `json:"id"`
	CreatedAt string                 `json:"createdat"`
	UpdatedAt *string                `json:"updatedat"`
	Fields    map[string]interface{} `json:"fields"`
}
