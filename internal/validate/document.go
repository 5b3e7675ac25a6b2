package validate

import (
	"strings"
	"time"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

// Document runs the document validator chain (date → amount) over a raw
// extraction record and converts it into a typed document. Line item amounts
// are backfilled from quantity × unit price, and the document total from the
// item sum, so totals are always consistent and non-negative.
func (r Rules) Document(rec map[string]any, docType, source string, now time.Time) domain.Document {
	typ := strings.TrimSpace(stringValue(rec["type"]))
	if typ == "" {
		typ = docType
	}

	issuer := strings.TrimSpace(stringValue(rec["issuer"]))
	if issuer == "" {
		issuer = "Unknown"
	}

	currency := strings.ToUpper(strings.TrimSpace(stringValue(rec["currency"])))
	if currency == "" {
		currency = "USD"
	}

	status := domain.PaymentStatus(strings.ToLower(strings.TrimSpace(stringValue(rec["payment_status"]))))
	if !status.Valid() {
		status = domain.StatusUnpaid
	}

	doc := domain.Document{
		Type:            typ,
		Issuer:          issuer,
		Recipient:       strings.TrimSpace(stringValue(rec["recipient"])),
		Currency:        currency,
		PaymentStatus:   status,
		ReferenceNumber: strings.TrimSpace(stringValue(rec["reference_number"])),
		Notes:           strings.TrimSpace(stringValue(rec["notes"])),
	}

	doc.Date = r.requiredDate(rec["date"], now, "date")
	doc.DueDate = r.optionalDate(rec["due_date"], now, "due_date")
	doc.PaymentDate = r.optionalDate(rec["payment_date"], now, "payment_date")

	doc.Items = r.lineItems(rec["items"])

	if tax, ok := numberValue(rec["tax"]); ok && tax >= 0 {
		doc.Tax = &tax
	}

	doc.TotalAmount = r.documentTotal(rec["total_amount"], doc.Items, source)

	return doc
}

// lineItems converts the raw items list, dropping entries that are not
// objects. Quantity defaults to 1, negative unit prices collapse to 0, and a
// missing amount is recomputed as quantity × unit price.
func (r Rules) lineItems(raw any) []domain.LineItem {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}

	items := make([]domain.LineItem, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		item := domain.LineItem{
			Description: strings.TrimSpace(stringValue(obj["description"])),
		}

		if qty, ok := numberValue(obj["quantity"]); ok && qty > 0 {
			item.Quantity = qty
		} else {
			item.Quantity = 1
		}

		if unit, ok := numberValue(obj["unit_price"]); ok && unit > 0 {
			item.UnitPrice = unit
		}

		if amount, ok := numberValue(obj["amount"]); ok && amount > 0 {
			item.Amount = amount
		} else if item.UnitPrice > 0 {
			item.Amount = item.Quantity * item.UnitPrice
		}

		items = append(items, item)
	}
	return items
}
