package search

import (
	"context"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

// TransactionFilters narrows a transaction search. Zero values mean
// "no constraint".
type TransactionFilters struct {
	Type      string
	Category  string
	MinAmount *float64
	MaxAmount *float64
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// DocumentFilters narrows a document search.
type DocumentFilters struct {
	Type      string
	StartDate string
	EndDate   string
}

// TextResult is one hit from a plain text search, carrying whichever entity
// matched.
type TextResult struct {
	ReferenceType string `json:"reference_type"` // "transaction" or "document"
	Transaction   *domain.Transaction
	Document      *domain.Document
}

// Engine is the search collaborator this service consumes. Implementations
// own storage and indexing; this package only orchestrates.
type Engine interface {
	SearchTransactions(ctx context.Context, filters TransactionFilters, limit int) ([]domain.Transaction, error)
	SearchDocuments(ctx context.Context, filters DocumentFilters, limit int) ([]domain.Document, error)
	TextSearch(ctx context.Context, query, referenceType string, limit int) ([]TextResult, error)
}

// QueryAnalyzer resolves a natural-language query into an intent plus
// parameters. Satisfied by *ai.Engine.
type QueryAnalyzer interface {
	AnalyzeQuery(ctx context.Context, query string) domain.QueryIntent
}
