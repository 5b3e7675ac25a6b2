package validate

import (
	"testing"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

func TestDocument_Invoice(t *testing.T) {
	r := DefaultRules()

	rec := map[string]any{
		"type":             "invoice",
		"issuer":           "Acme Corp",
		"recipient":        "Startup Inc",
		"date":             "2024-03-01",
		"due_date":         "2024-03-31",
		"currency":         "usd",
		"payment_status":   "unpaid",
		"reference_number": "INV-042",
		"tax":              20.0,
		"items": []any{
			map[string]any{"description": "Consulting", "quantity": 2.0, "unit_price": 50.0},
		},
	}

	doc := r.Document(rec, "invoice", "Invoice INV-042 from Acme Corp", testNow)

	if doc.Type != "invoice" {
		t.Errorf("Type = %q, want invoice", doc.Type)
	}
	if doc.Issuer != "Acme Corp" {
		t.Errorf("Issuer = %q, want Acme Corp", doc.Issuer)
	}
	if doc.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", doc.Currency)
	}
	if doc.DueDate != "2024-03-31" {
		t.Errorf("DueDate = %q, want 2024-03-31", doc.DueDate)
	}
	if doc.Tax == nil || *doc.Tax != 20.0 {
		t.Errorf("Tax = %v, want 20", doc.Tax)
	}

	if len(doc.Items) != 1 {
		t.Fatalf("Items = %d, want 1", len(doc.Items))
	}
	// Missing item amount is recomputed as quantity × unit price, and the
	// missing total as the item sum.
	if doc.Items[0].Amount != 100.0 {
		t.Errorf("Items[0].Amount = %v, want 100", doc.Items[0].Amount)
	}
	if doc.TotalAmount != 100.0 {
		t.Errorf("TotalAmount = %v, want 100", doc.TotalAmount)
	}
}

func TestDocument_Defaults(t *testing.T) {
	r := DefaultRules()

	doc := r.Document(map[string]any{}, "receipt", "coffee receipt", testNow)

	if doc.Type != "receipt" {
		t.Errorf("Type = %q, want caller docType", doc.Type)
	}
	if doc.Issuer != "Unknown" {
		t.Errorf("Issuer = %q, want Unknown", doc.Issuer)
	}
	if doc.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", doc.Currency)
	}
	if doc.PaymentStatus != domain.StatusUnpaid {
		t.Errorf("PaymentStatus = %q, want unpaid", doc.PaymentStatus)
	}
	if doc.Date != "2024-03-15" {
		t.Errorf("Date = %q, want current date", doc.Date)
	}
	if doc.Tax != nil {
		t.Errorf("Tax = %v, want nil", doc.Tax)
	}
}

func TestLineItems(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		name string
		raw  any
		want []domain.LineItem
	}{
		{
			name: "not a list",
			raw:  "two consulting hours",
			want: nil,
		},
		{
			name: "non-object entries dropped",
			raw:  []any{"stray string", map[string]any{"description": "Widget", "amount": 10.0}},
			want: []domain.LineItem{{Description: "Widget", Quantity: 1, Amount: 10}},
		},
		{
			name: "quantity defaults to one",
			raw:  []any{map[string]any{"description": "Hosting", "unit_price": 30.0}},
			want: []domain.LineItem{{Description: "Hosting", Quantity: 1, UnitPrice: 30, Amount: 30}},
		},
		{
			name: "explicit amount wins over recomputation",
			raw:  []any{map[string]any{"description": "Bundle", "quantity": 3.0, "unit_price": 10.0, "amount": 25.0}},
			want: []domain.LineItem{{Description: "Bundle", Quantity: 3, UnitPrice: 10, Amount: 25}},
		},
		{
			name: "negative unit price collapses to zero",
			raw:  []any{map[string]any{"description": "Credit", "unit_price": -5.0}},
			want: []domain.LineItem{{Description: "Credit", Quantity: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.lineItems(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("lineItems() returned %d items, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("lineItems()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
