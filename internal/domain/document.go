package domain

// PaymentStatus tracks whether a document has been settled.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPartial PaymentStatus = "partial"
)

// Valid reports whether s is one of the recognized payment statuses.
func (s PaymentStatus) Valid() bool {
	return s == StatusPaid || s == StatusUnpaid || s == StatusPartial
}

// LineItem is a single billed line on an invoice or receipt.
// After validation Amount is backfilled from Quantity*UnitPrice when the
// model omitted it.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// Document is a normalized financial document (invoice, receipt, ...)
// produced by the extraction pipeline. TotalAmount is never negative after
// validation and is recomputed from Items when the model omitted it.
type Document struct {
	ID              string        `json:"id,omitempty"`
	Type            string        `json:"type"`
	Issuer          string        `json:"issuer"`
	Recipient       string        `json:"recipient,omitempty"`
	Date            string        `json:"date"` // YYYY-MM-DD
	DueDate         string        `json:"due_date,omitempty"`
	TotalAmount     float64       `json:"total_amount"`
	Currency        string        `json:"currency"`
	Items           []LineItem    `json:"items,omitempty"`
	Tax             *float64      `json:"tax,omitempty"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentDate     string        `json:"payment_date,omitempty"`
	ReferenceNumber string        `json:"reference_number,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	SourceURI       string        `json:"source_uri,omitempty"` // gs:// URI of the stored source text
}
