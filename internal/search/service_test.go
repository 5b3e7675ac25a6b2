package search

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

type mockAnalyzer struct {
	AnalyzeQueryFunc func(ctx context.Context, query string) domain.QueryIntent
}

func (m *mockAnalyzer) AnalyzeQuery(ctx context.Context, query string) domain.QueryIntent {
	return m.AnalyzeQueryFunc(ctx, query)
}

type mockEngine struct {
	SearchTransactionsFunc func(ctx context.Context, filters TransactionFilters, limit int) ([]domain.Transaction, error)
	SearchDocumentsFunc    func(ctx context.Context, filters DocumentFilters, limit int) ([]domain.Document, error)
	TextSearchFunc         func(ctx context.Context, query, referenceType string, limit int) ([]TextResult, error)
}

func (m *mockEngine) SearchTransactions(ctx context.Context, filters TransactionFilters, limit int) ([]domain.Transaction, error) {
	if m.SearchTransactionsFunc != nil {
		return m.SearchTransactionsFunc(ctx, filters, limit)
	}
	return []domain.Transaction{}, nil
}

func (m *mockEngine) SearchDocuments(ctx context.Context, filters DocumentFilters, limit int) ([]domain.Document, error) {
	if m.SearchDocumentsFunc != nil {
		return m.SearchDocumentsFunc(ctx, filters, limit)
	}
	return []domain.Document{}, nil
}

func (m *mockEngine) TextSearch(ctx context.Context, query, referenceType string, limit int) ([]TextResult, error) {
	if m.TextSearchFunc != nil {
		return m.TextSearchFunc(ctx, query, referenceType, limit)
	}
	return []TextResult{}, nil
}

func intentAnalyzer(intent domain.Intent, params map[string]any) *mockAnalyzer {
	return &mockAnalyzer{
		AnalyzeQueryFunc: func(ctx context.Context, query string) domain.QueryIntent {
			if params == nil {
				params = map[string]any{}
			}
			return domain.QueryIntent{Intent: intent, Parameters: params}
		},
	}
}

func TestSearch_TopLevelCategoryWinsOverFilters(t *testing.T) {
	var gotFilters TransactionFilters
	engine := &mockEngine{
		SearchTransactionsFunc: func(ctx context.Context, filters TransactionFilters, limit int) ([]domain.Transaction, error) {
			gotFilters = filters
			return []domain.Transaction{
				{Type: domain.TypeExpense, Amount: 500, Currency: "USD", Description: "Google Ads", Category: "Marketing", Date: "2024-03-01"},
			}, nil
		},
	}

	// The analyzer resolved a top-level category (keyword-forced during
	// analysis); it must win over whatever the nested filters said.
	params := map[string]any{
		"category": "Marketing",
		"filters":  map[string]any{"category": "Software"},
	}
	svc := NewService(intentAnalyzer(domain.IntentTransactionSearch, params), engine, 20, zerolog.Nop())
	result := svc.Search(context.Background(), "show me marketing expenses", "", 0)

	if gotFilters.Category != "Marketing" {
		t.Errorf("filters.Category = %q, want top-level Marketing", gotFilters.Category)
	}
	if result.Error != "" {
		t.Errorf("unexpected error: %s", result.Error)
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(result.Transactions))
	}
	if result.Explanation == "" {
		t.Error("expected an explanation for a non-empty result set")
	}
}

func TestSearch_FiltersFromParameters(t *testing.T) {
	var gotFilters TransactionFilters
	engine := &mockEngine{
		SearchTransactionsFunc: func(ctx context.Context, filters TransactionFilters, limit int) ([]domain.Transaction, error) {
			gotFilters = filters
			return []domain.Transaction{}, nil
		},
	}

	params := map[string]any{
		"filters": map[string]any{
			"type":       "expense",
			"category":   "Travel",
			"start_date": "2024-01-01",
			"end_date":   "2024-03-31",
			"min_amount": 100.0,
		},
	}
	svc := NewService(intentAnalyzer(domain.IntentFinancialAnalysis, params), engine, 20, zerolog.Nop())
	svc.Search(context.Background(), "spending report", "transactions", 0)

	if gotFilters.Type != "expense" || gotFilters.Category != "Travel" {
		t.Errorf("filters = %+v, want type/category from parameters", gotFilters)
	}
	if gotFilters.StartDate != "2024-01-01" || gotFilters.EndDate != "2024-03-31" {
		t.Errorf("filters = %+v, want date range from parameters", gotFilters)
	}
	if gotFilters.MinAmount == nil || *gotFilters.MinAmount != 100.0 {
		t.Errorf("filters.MinAmount = %v, want 100", gotFilters.MinAmount)
	}
}

func TestSearch_EngineFailureDegrades(t *testing.T) {
	engine := &mockEngine{
		SearchTransactionsFunc: func(ctx context.Context, filters TransactionFilters, limit int) ([]domain.Transaction, error) {
			return nil, errors.New("dataset unavailable")
		},
	}

	svc := NewService(intentAnalyzer(domain.IntentTransactionList, nil), engine, 20, zerolog.Nop())
	result := svc.Search(context.Background(), "list my expenses", "", 0)

	if result.Error != "dataset unavailable" {
		t.Errorf("Error = %q, want collaborator error", result.Error)
	}
	if result.Query != "list my expenses" {
		t.Errorf("Query = %q, want original query echoed", result.Query)
	}
	if result.Transactions == nil || result.Documents == nil {
		t.Error("degraded result must carry empty, non-nil collections")
	}
	if len(result.Transactions) != 0 || len(result.Documents) != 0 {
		t.Error("degraded result must be empty")
	}
}

func TestSearch_GuessesSearchType(t *testing.T) {
	tests := []struct {
		name     string
		intent   domain.Intent
		query    string
		wantTx   bool
		wantDocs bool
	}{
		{"transaction intent", domain.IntentTransactionSearch, "find payments", true, false},
		{"document intent", domain.IntentDocumentProcess, "my invoices", false, true},
		{"document keyword in query", domain.IntentGeneralQuery, "show recent documents", false, true},
		{"everything else searches both", domain.IntentGeneralQuery, "what happened in march", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txCalled, docsCalled bool
			engine := &mockEngine{
				SearchTransactionsFunc: func(ctx context.Context, filters TransactionFilters, limit int) ([]domain.Transaction, error) {
					txCalled = true
					return []domain.Transaction{}, nil
				},
				SearchDocumentsFunc: func(ctx context.Context, filters DocumentFilters, limit int) ([]domain.Document, error) {
					docsCalled = true
					return []domain.Document{}, nil
				},
			}

			svc := NewService(intentAnalyzer(tt.intent, nil), engine, 20, zerolog.Nop())
			svc.Search(context.Background(), tt.query, "", 0)

			if txCalled != tt.wantTx {
				t.Errorf("transactions searched = %v, want %v", txCalled, tt.wantTx)
			}
			if docsCalled != tt.wantDocs {
				t.Errorf("documents searched = %v, want %v", docsCalled, tt.wantDocs)
			}
		})
	}
}

func TestSearchText_FailureDegradesToEmpty(t *testing.T) {
	engine := &mockEngine{
		TextSearchFunc: func(ctx context.Context, query, referenceType string, limit int) ([]TextResult, error) {
			return nil, errors.New("index offline")
		},
	}

	svc := NewService(intentAnalyzer(domain.IntentGeneralQuery, nil), engine, 20, zerolog.Nop())
	results := svc.SearchText(context.Background(), "acme", "", 0)

	if results == nil || len(results) != 0 {
		t.Errorf("results = %v, want empty non-nil slice", results)
	}
}
