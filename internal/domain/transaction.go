package domain

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the recognized transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Frequency is the repetition interval of a recurring transaction.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid reports whether f is one of the recognized frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Transaction is one normalized transaction produced by the extraction
// pipeline. It is only constructed after every validator has run, so callers
// can rely on Amount > 0, a non-empty ISO Date and a non-nil Tags map.
type Transaction struct {
	ID          string            `json:"id,omitempty"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Date        string            `json:"date"`                   // YYYY-MM-DD
	PaymentDate string            `json:"payment_date,omitempty"` // YYYY-MM-DD or empty
	Recurring   bool              `json:"recurring"`
	Frequency   Frequency         `json:"frequency,omitempty"`
	StartDate   string            `json:"start_date,omitempty"`
	EndDate     string            `json:"end_date,omitempty"`
	Tags        map[string]string `json:"tags"`
	RecurringID string            `json:"recurring_id,omitempty"`
}

// RecurringItem is the schedule record behind a recurring transaction.
type RecurringItem struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Frequency   Frequency         `json:"frequency"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
