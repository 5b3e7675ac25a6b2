package validate

import (
	"strings"
	"time"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

// Transaction runs the full validator chain (date → amount → category) over
// a raw extraction record and converts it into a typed transaction. The
// chain is total and idempotent: any record, however malformed, yields a
// structurally valid transaction, and re-validating a valid one is a no-op.
//
// source is the original natural-language input; it feeds the regex amount
// fallback and the keyword category inference. now anchors date defaults.
func (r Rules) Transaction(rec map[string]any, source string, now time.Time) domain.Transaction {
	txType := domain.TransactionType(strings.ToLower(strings.TrimSpace(stringValue(rec["type"]))))
	if !txType.Valid() {
		txType = domain.TypeExpense
	}

	description := strings.TrimSpace(stringValue(rec["description"]))
	if description == "" {
		description = strings.TrimSpace(source)
	}

	currency := strings.ToUpper(strings.TrimSpace(stringValue(rec["currency"])))
	if currency == "" {
		currency = "USD"
	}

	frequency := domain.Frequency(strings.ToLower(strings.TrimSpace(stringValue(rec["frequency"]))))
	if !frequency.Valid() {
		frequency = ""
	}

	tx := domain.Transaction{
		Type:        txType,
		Description: description,
		Currency:    currency,
		Recurring:   boolValue(rec["recurring"]),
		Frequency:   frequency,
		Tags:        tagsValue(rec["tags"]),
	}

	tx.Date = r.requiredDate(rec["date"], now, "date")
	tx.PaymentDate = r.optionalDate(rec["payment_date"], now, "payment_date")
	tx.StartDate = r.optionalDate(rec["start_date"], now, "start_date")
	tx.EndDate = r.optionalDate(rec["end_date"], now, "end_date")

	tx.Amount = r.transactionAmount(rec["amount"], source)
	tx.Category = r.transactionCategory(rec["category"], txType, description)

	return tx
}
