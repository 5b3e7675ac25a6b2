package domain

// Intent labels what the user is asking for in a natural-language query.
type Intent string

const (
	IntentTransactionCreate Intent = "transaction_create"
	IntentTransactionList   Intent = "transaction_list"
	IntentTransactionSearch Intent = "transaction_search"
	IntentDocumentProcess   Intent = "document_process"
	IntentFinancialAnalysis Intent = "financial_analysis"
	IntentReportGenerate    Intent = "report_generate"
	IntentRecommendation    Intent = "recommendation"
	IntentGeneralQuery      Intent = "general_query"
)

// Valid reports whether i is one of the recognized intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentTransactionCreate, IntentTransactionList, IntentTransactionSearch,
		IntentDocumentProcess, IntentFinancialAnalysis, IntentReportGenerate,
		IntentRecommendation, IntentGeneralQuery:
		return true
	}
	return false
}

// QueryIntent is the analyzed form of a natural-language query: an intent
// label plus whatever parameters the model extracted for it (analysis_type,
// report_type, category, topic, filters, ...). Parameters is never nil.
type QueryIntent struct {
	Intent     Intent         `json:"intent"`
	Parameters map[string]any `json:"parameters"`
}

// GeneralQuery is the fallback analysis used when the model output cannot
// be recovered.
func GeneralQuery() QueryIntent {
	return QueryIntent{Intent: IntentGeneralQuery, Parameters: map[string]any{}}
}
