// Package bigquery is the BigQuery-backed implementation of the search
// collaborator and the record stores consumed by the services.
package bigquery

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

const dateFormat = "2006-01-02"

// TransactionRow maps a domain transaction onto the finance.transactions
// table schema.
type TransactionRow struct {
	TransactionID   string            `bigquery:"transaction_id"`
	Type            string            `bigquery:"type"`
	Amount          float64           `bigquery:"amount"`
	Currency        string            `bigquery:"currency"`
	Description     string            `bigquery:"description"`
	Category        string            `bigquery:"category"`
	TransactionDate civil.Date        `bigquery:"transaction_date"`
	PaymentDate     bigquery.NullDate `bigquery:"payment_date"`
	Recurring       bool              `bigquery:"recurring"`
	Frequency       string            `bigquery:"frequency"`
	RecurringID     string            `bigquery:"recurring_id"`
	Tags            string            `bigquery:"tags"` // JSON-encoded map
	CreatedTS       time.Time         `bigquery:"created_ts"`
}

// DocumentRow maps a domain document onto the finance.documents table schema.
// Items are stored JSON-encoded; the search paths never filter on them.
type DocumentRow struct {
	DocumentID      string               `bigquery:"document_id"`
	Type            string               `bigquery:"type"`
	Issuer          string               `bigquery:"issuer"`
	Recipient       string               `bigquery:"recipient"`
	DocumentDate    civil.Date           `bigquery:"document_date"`
	DueDate         bigquery.NullDate    `bigquery:"due_date"`
	TotalAmount     float64              `bigquery:"total_amount"`
	Currency        string               `bigquery:"currency"`
	Items           string               `bigquery:"items"` // JSON-encoded list
	Tax             bigquery.NullFloat64 `bigquery:"tax"`
	PaymentStatus   string               `bigquery:"payment_status"`
	PaymentDate     bigquery.NullDate    `bigquery:"payment_date"`
	ReferenceNumber string               `bigquery:"reference_number"`
	Notes           string               `bigquery:"notes"`
	SourceURI       string               `bigquery:"source_uri"`
	CreatedTS       time.Time            `bigquery:"created_ts"`
}

// RecurringRow maps a recurring schedule onto finance.recurring_items.
type RecurringRow struct {
	RecurringID string            `bigquery:"recurring_id"`
	Type        string            `bigquery:"type"`
	Amount      float64           `bigquery:"amount"`
	Currency    string            `bigquery:"currency"`
	Description string            `bigquery:"description"`
	Category    string            `bigquery:"category"`
	Frequency   string            `bigquery:"frequency"`
	StartDate   civil.Date        `bigquery:"start_date"`
	EndDate     bigquery.NullDate `bigquery:"end_date"`
	Metadata    string            `bigquery:"metadata"` // JSON-encoded map
	CreatedTS   time.Time         `bigquery:"created_ts"`
}

func rowFromTransaction(tx *domain.Transaction) (*TransactionRow, error) {
	date, err := civilDate(tx.Date)
	if err != nil {
		return nil, fmt.Errorf("rowFromTransaction: invalid date %q: %w", tx.Date, err)
	}

	tags, err := json.Marshal(tx.Tags)
	if err != nil {
		return nil, fmt.Errorf("rowFromTransaction: encoding tags: %w", err)
	}

	return &TransactionRow{
		TransactionID:   tx.ID,
		Type:            string(tx.Type),
		Amount:          tx.Amount,
		Currency:        tx.Currency,
		Description:     tx.Description,
		Category:        tx.Category,
		TransactionDate: date,
		PaymentDate:     nullDate(tx.PaymentDate),
		Recurring:       tx.Recurring,
		Frequency:       string(tx.Frequency),
		RecurringID:     tx.RecurringID,
		Tags:            string(tags),
		CreatedTS:       time.Now(),
	}, nil
}

func (r *TransactionRow) toDomain() domain.Transaction {
	tags := make(map[string]string)
	if r.Tags != "" {
		// A corrupt tags column degrades to an empty map rather than failing
		// the whole search.
		_ = json.Unmarshal([]byte(r.Tags), &tags)
	}

	return domain.Transaction{
		ID:          r.TransactionID,
		Type:        domain.TransactionType(r.Type),
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.TransactionDate.String(),
		PaymentDate: dateString(r.PaymentDate),
		Recurring:   r.Recurring,
		Frequency:   domain.Frequency(r.Frequency),
		RecurringID: r.RecurringID,
		Tags:        tags,
	}
}

func rowFromDocument(doc *domain.Document) (*DocumentRow, error) {
	date, err := civilDate(doc.Date)
	if err != nil {
		return nil, fmt.Errorf("rowFromDocument: invalid date %q: %w", doc.Date, err)
	}

	items, err := json.Marshal(doc.Items)
	if err != nil {
		return nil, fmt.Errorf("rowFromDocument: encoding items: %w", err)
	}

	row := &DocumentRow{
		DocumentID:      doc.ID,
		Type:            doc.Type,
		Issuer:          doc.Issuer,
		Recipient:       doc.Recipient,
		DocumentDate:    date,
		DueDate:         nullDate(doc.DueDate),
		TotalAmount:     doc.TotalAmount,
		Currency:        doc.Currency,
		Items:           string(items),
		PaymentStatus:   string(doc.PaymentStatus),
		PaymentDate:     nullDate(doc.PaymentDate),
		ReferenceNumber: doc.ReferenceNumber,
		Notes:           doc.Notes,
		SourceURI:       doc.SourceURI,
		CreatedTS:       time.Now(),
	}
	if doc.Tax != nil {
		row.Tax = bigquery.NullFloat64{Float64: *doc.Tax, Valid: true}
	}
	return row, nil
}

func (r *DocumentRow) toDomain() domain.Document {
	var items []domain.LineItem
	if r.Items != "" {
		_ = json.Unmarshal([]byte(r.Items), &items)
	}

	doc := domain.Document{
		ID:              r.DocumentID,
		Type:            r.Type,
		Issuer:          r.Issuer,
		Recipient:       r.Recipient,
		Date:            r.DocumentDate.String(),
		DueDate:         dateString(r.DueDate),
		TotalAmount:     r.TotalAmount,
		Currency:        r.Currency,
		Items:           items,
		PaymentStatus:   domain.PaymentStatus(r.PaymentStatus),
		PaymentDate:     dateString(r.PaymentDate),
		ReferenceNumber: r.ReferenceNumber,
		Notes:           r.Notes,
		SourceURI:       r.SourceURI,
	}
	if r.Tax.Valid {
		tax := r.Tax.Float64
		doc.Tax = &tax
	}
	return doc
}

func rowFromRecurring(item *domain.RecurringItem) (*RecurringRow, error) {
	start, err := civilDate(item.StartDate)
	if err != nil {
		return nil, fmt.Errorf("rowFromRecurring: invalid start date %q: %w", item.StartDate, err)
	}

	metadata, err := json.Marshal(item.Metadata)
	if err != nil {
		return nil, fmt.Errorf("rowFromRecurring: encoding metadata: %w", err)
	}

	return &RecurringRow{
		RecurringID: item.ID,
		Type:        string(item.Type),
		Amount:      item.Amount,
		Currency:    item.Currency,
		Description: item.Description,
		Category:    item.Category,
		Frequency:   string(item.Frequency),
		StartDate:   start,
		EndDate:     nullDate(item.EndDate),
		Metadata:    string(metadata),
		CreatedTS:   time.Now(),
	}, nil
}

func civilDate(s string) (civil.Date, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return civil.Date{}, err
	}
	return civil.DateOf(t), nil
}

func nullDate(s string) bigquery.NullDate {
	if s == "" {
		return bigquery.NullDate{}
	}
	d, err := civilDate(s)
	if err != nil {
		return bigquery.NullDate{}
	}
	return bigquery.NullDate{Date: d, Valid: true}
}

func dateString(d bigquery.NullDate) string {
	if !d.Valid {
		return ""
	}
	return d.Date.String()
}
