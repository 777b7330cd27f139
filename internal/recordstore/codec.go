package recordstore

import (
	"strings"
	"time"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
	"github.com/procuredesk/order-reconciliation/internal/domain/workflow"
)

// Wire field names of the four collections. The store predates this
// service and uses German field names; they are confined to this file.
const (
	// purchase orders
	fieldOrderNumber      = "bestellnummer"
	fieldOrderDate        = "bestelldatum"
	fieldSupplier         = "lieferant"
	fieldArticleNumber    = "artikelnummer"
	fieldArticleDesc      = "artikelbezeichnung"
	fieldOrderedQuantity  = "bestellte_menge"
	fieldUnit             = "mengeneinheit"
	fieldUnitPrice        = "einzelpreis"
	fieldTotalPrice       = "gesamtpreis"
	fieldExpectedDelivery = "erwartetes_lieferdatum"

	// order confirmations
	fieldConfArticleDesc   = "ab_artikelbezeichnung"
	fieldConfQuantity      = "ab_menge"
	fieldConfUnit          = "ab_mengeneinheit"
	fieldConfUnitPrice     = "ab_einzelpreis"
	fieldConfTotalPrice    = "ab_gesamtpreis"
	fieldConfDeliveryDate  = "ab_liefertermin"
	fieldConfOrderRef      = "bestellung"
	fieldConfPDF           = "pdf_dokument"
	fieldConfExtractedAt   = "extraktionsdatum"
	fieldConfSupplierName  = "lieferant_name"
	fieldConfNumber        = "auftragsnummer"
	fieldConfDate          = "auftragsdatum"
	fieldConfArticleNumber = "ab_artikelnummer"

	// reconciliation results
	fieldResultOrderRef       = "bestellung"
	fieldResultConfRef        = "auftragsbestaetigung"
	fieldReconciledAt         = "abgleichsdatum"
	fieldDeviationsPresent    = "abweichungen_vorhanden"
	fieldDeviationTypes       = "abweichungstyp"
	fieldQuantityDeviation    = "mengenabweichung_wert"
	fieldQuantityDeviationPct = "mengenabweichung_prozent"
	fieldPriceDeviation       = "preisabweichung_wert"
	fieldPriceDeviationPct    = "preisabweichung_prozent"
	fieldOrderArticleNumber   = "artikelnummer_bestellung"
	fieldConfArticleNumberRes = "artikelnummer_ab"
	fieldQuantityTolerance    = "mengentoleranzschwelle"
	fieldPriceTolerance       = "preistoleranz_schwelle"
	fieldWithinQuantityTol    = "innerhalb_mengentoleran"
	fieldWithinPriceTol       = "innerhalb_preistoleranz"
	fieldJustification        = "abweichungsbegruendung"
	fieldStatus               = "freigabestatus"

	// review decisions
	fieldDecisionResultRef = "abgleichsergebnis"
	fieldReviewerFirstName = "pruefer_vorname"
	fieldReviewerLastName  = "pruefer_nachname"
	fieldReviewDate        = "pruefdatum"
	fieldDecision          = "freigabeentscheidung"
	fieldComment           = "kommentar"
	fieldCorrectiveAction  = "korrekturmassnahmen"
	fieldFollowUpRequired  = "nachverfolgung_erforderlich"
	fieldFollowUpDate      = "nachverfolgungsdatum"
)

var statusWire = map[string]string{
	workflow.StateOpen.String():     "offen",
	workflow.StateInReview.String(): "in_pruefung",
	workflow.StateApproved.String(): "freigegeben",
	workflow.StateRejected.String(): "abgelehnt",
}

var statusInternal = map[string]string{
	"offen":       workflow.StateOpen.String(),
	"in_pruefung": workflow.StateInReview.String(),
	"freigegeben": workflow.StateApproved.String(),
	"abgelehnt":   workflow.StateRejected.String(),
}

var deviationTypeWire = map[entity.DeviationType]string{
	entity.DeviationQuantity:      "mengenabweichung",
	entity.DeviationPrice:         "preisabweichung",
	entity.DeviationArticleNumber: "artikelnummernabweichung",
	entity.DeviationDeliveryDate:  "lieferterminabweichung",
}

var deviationTypeInternal = map[string]entity.DeviationType{
	"mengenabweichung":         entity.DeviationQuantity,
	"preisabweichung":          entity.DeviationPrice,
	"artikelnummernabweichung": entity.DeviationArticleNumber,
	"lieferterminabweichung":   entity.DeviationDeliveryDate,
}

func statusToWire(status string) string {
	if wire, ok := statusWire[status]; ok {
		return wire
	}
	return "offen"
}

func statusFromWire(wire string) string {
	if status, ok := statusInternal[wire]; ok {
		return status
	}
	return workflow.StateOpen.String()
}

// typesToWire encodes the tag set as a comma-joined string, the store's
// single-field representation.
func typesToWire(types []entity.DeviationType) string {
	wire := make([]string, 0, len(types))
	for _, t := range types {
		if w, ok := deviationTypeWire[t]; ok {
			wire = append(wire, w)
		}
	}
	return strings.Join(wire, ",")
}

// typesFromWire decodes the deviation type field, which arrives either as
// a comma-joined string or as an array depending on the store version.
func typesFromWire(value interface{}) []entity.DeviationType {
	var tags []string
	switch v := value.(type) {
	case string:
		tags = strings.Split(v, ",")
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
	}

	var types []entity.DeviationType
	for _, tag := range tags {
		if t, ok := deviationTypeInternal[strings.TrimSpace(tag)]; ok {
			types = append(types, t)
		}
	}
	return types
}

func decodeOrder(rec Record) *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:                 rec.ID,
		OrderNumber:        getString(rec.Fields, fieldOrderNumber),
		OrderDate:          getDate(rec.Fields, fieldOrderDate),
		Supplier:           getString(rec.Fields, fieldSupplier),
		ArticleNumber:      getString(rec.Fields, fieldArticleNumber),
		ArticleDescription: getString(rec.Fields, fieldArticleDesc),
		Quantity:           getFloat(rec.Fields, fieldOrderedQuantity),
		Unit:               getString(rec.Fields, fieldUnit),
		UnitPrice:          getFloat(rec.Fields, fieldUnitPrice),
		TotalPrice:         getFloat(rec.Fields, fieldTotalPrice),
		ExpectedDelivery:   getDate(rec.Fields, fieldExpectedDelivery),
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

func decodeConfirmation(rec Record) *entity.OrderConfirmation {
	return &entity.OrderConfirmation{
		ID:                 rec.ID,
		OrderID:            ExtractRecordID(getString(rec.Fields, fieldConfOrderRef)),
		ArticleNumber:      getString(rec.Fields, fieldConfArticleNumber),
		ArticleDescription: getString(rec.Fields, fieldConfArticleDesc),
		Quantity:           getFloat(rec.Fields, fieldConfQuantity),
		Unit:               getString(rec.Fields, fieldConfUnit),
		UnitPrice:          getFloat(rec.Fields, fieldConfUnitPrice),
		TotalPrice:         getFloat(rec.Fields, fieldConfTotalPrice),
		DeliveryDate:       getDate(rec.Fields, fieldConfDeliveryDate),
		SupplierName:       getString(rec.Fields, fieldConfSupplierName),
		ConfirmationNumber: getString(rec.Fields, fieldConfNumber),
		ConfirmationDate:   getDate(rec.Fields, fieldConfDate),
		PDFDocument:        getString(rec.Fields, fieldConfPDF),
		ExtractedAt:        getDate(rec.Fields, fieldConfExtractedAt),
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

func encodeConfirmation(c *entity.OrderConfirmation, baseURL, ordersAppID string) map[string]interface{} {
	fields := map[string]interface{}{
		fieldConfArticleNumber: c.ArticleNumber,
		fieldConfArticleDesc:   c.ArticleDescription,
		fieldConfUnit:          c.Unit,
		fieldConfSupplierName:  c.SupplierName,
		fieldConfNumber:        c.ConfirmationNumber,
		fieldConfPDF:           c.PDFDocument,
	}
	if c.OrderID != "" {
		fields[fieldConfOrderRef] = RecordURL(baseURL, ordersAppID, c.OrderID)
	}
	putFloat(fields, fieldConfQuantity, c.Quantity)
	putFloat(fields, fieldConfUnitPrice, c.UnitPrice)
	putFloat(fields, fieldConfTotalPrice, c.TotalPrice)
	putDate(fields, fieldConfDeliveryDate, c.DeliveryDate)
	putDate(fields, fieldConfDate, c.ConfirmationDate)
	putDate(fields, fieldConfExtractedAt, c.ExtractedAt)
	return fields
}

func decodeResult(rec Record) *entity.ReconciliationResult {
	result := &entity.ReconciliationResult{
		ID:                        rec.ID,
		OrderID:                   ExtractRecordID(getString(rec.Fields, fieldResultOrderRef)),
		ConfirmationID:            ExtractRecordID(getString(rec.Fields, fieldResultConfRef)),
		DeviationsPresent:         getBool(rec.Fields, fieldDeviationsPresent),
		DeviationTypes:            typesFromWire(rec.Fields[fieldDeviationTypes]),
		QuantityDeviation:         getFloat(rec.Fields, fieldQuantityDeviation),
		QuantityDeviationPercent:  getFloat(rec.Fields, fieldQuantityDeviationPct),
		PriceDeviation:            getFloat(rec.Fields, fieldPriceDeviation),
		PriceDeviationPercent:     getFloat(rec.Fields, fieldPriceDeviationPct),
		OrderArticleNumber:        getString(rec.Fields, fieldOrderArticleNumber),
		ConfirmationArticleNumber: getString(rec.Fields, fieldConfArticleNumberRes),
		WithinQuantityTolerance:   getBool(rec.Fields, fieldWithinQuantityTol),
		WithinPriceTolerance:      getBool(rec.Fields, fieldWithinPriceTol),
		Justification:             getString(rec.Fields, fieldJustification),
		Status:                    statusFromWire(getString(rec.Fields, fieldStatus)),
		CreatedAt:                 rec.CreatedAt,
		UpdatedAt:                 rec.UpdatedAt,
	}
	if t := getDate(rec.Fields, fieldReconciledAt); t != nil {
		result.ReconciledAt = *t
	}
	if v := getFloat(rec.Fields, fieldQuantityTolerance); v != nil {
		result.QuantityTolerancePercent = *v
	}
	if v := getFloat(rec.Fields, fieldPriceTolerance); v != nil {
		result.PriceTolerancePercent = *v
	}
	return result
}

func encodeResult(r *entity.ReconciliationResult, baseURL string, apps AppIDs) map[string]interface{} {
	fields := map[string]interface{}{
		fieldResultOrderRef:       RecordURL(baseURL, apps.Orders, r.OrderID),
		fieldResultConfRef:        RecordURL(baseURL, apps.Confirmations, r.ConfirmationID),
		fieldReconciledAt:         r.ReconciledAt.Format("2006-01-02"),
		fieldDeviationsPresent:    r.DeviationsPresent,
		fieldDeviationTypes:       typesToWire(r.DeviationTypes),
		fieldOrderArticleNumber:   r.OrderArticleNumber,
		fieldConfArticleNumberRes: r.ConfirmationArticleNumber,
		fieldQuantityTolerance:    r.QuantityTolerancePercent,
		fieldPriceTolerance:       r.PriceTolerancePercent,
		fieldWithinQuantityTol:    r.WithinQuantityTolerance,
		fieldWithinPriceTol:       r.WithinPriceTolerance,
		fieldJustification:        r.Justification,
		fieldStatus:               statusToWire(r.Status),
	}
	putFloat(fields, fieldQuantityDeviation, r.QuantityDeviation)
	putFloat(fields, fieldQuantityDeviationPct, r.QuantityDeviationPercent)
	putFloat(fields, fieldPriceDeviation, r.PriceDeviation)
	putFloat(fields, fieldPriceDeviationPct, r.PriceDeviationPercent)
	return fields
}

func decodeDecision(rec Record) *entity.ReviewDecision {
	return &entity.ReviewDecision{
		ID:                rec.ID,
		ResultID:          ExtractRecordID(getString(rec.Fields, fieldDecisionResultRef)),
		ReviewerFirstName: getString(rec.Fields, fieldReviewerFirstName),
		ReviewerLastName:  getString(rec.Fields, fieldReviewerLastName),
		ReviewDate:        getDate(rec.Fields, fieldReviewDate),
		Decision:          getString(rec.Fields, fieldDecision),
		Comment:           getString(rec.Fields, fieldComment),
		CorrectiveAction:  getString(rec.Fields, fieldCorrectiveAction),
		FollowUpRequired:  getBool(rec.Fields, fieldFollowUpRequired),
		FollowUpDate:      getDate(rec.Fields, fieldFollowUpDate),
		CreatedAt:         rec.CreatedAt,
	}
}

func encodeDecision(d *entity.ReviewDecision, baseURL, resultsAppID string) map[string]interface{} {
	fields := map[string]interface{}{
		fieldDecisionResultRef: RecordURL(baseURL, resultsAppID, d.ResultID),
		fieldReviewerFirstName: d.ReviewerFirstName,
		fieldReviewerLastName:  d.ReviewerLastName,
		fieldDecision:          d.Decision,
		fieldComment:           d.Comment,
		fieldCorrectiveAction:  d.CorrectiveAction,
		fieldFollowUpRequired:  d.FollowUpRequired,
	}
	putDate(fields, fieldReviewDate, d.ReviewDate)
	putDate(fields, fieldFollowUpDate, d.FollowUpDate)
	return fields
}

func getString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func getFloat(fields map[string]interface{}, key string) *float64 {
	if v, ok := fields[key].(float64); ok {
		return &v
	}
	return nil
}

func getBool(fields map[string]interface{}, key string) bool {
	if v, ok := fields[key].(bool); ok {
		return v
	}
	return false
}

// getDate accepts plain dates and full timestamps.
func getDate(fields map[string]interface{}, key string) *time.Time {
	s := getString(fields, key)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func putFloat(fields map[string]interface{}, key string, v *float64) {
	if v != nil {
		fields[key] = *v
	}
}

func putDate(fields map[string]interface{}, key string, t *time.Time) {
	if t != nil {
		fields[key] = t.Format("2006-01-02")
	}
}
