package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

const defaultLimit = 20

// Service answers natural-language search requests: analyze the query,
// fan the resolved filters out to the search collaborator, and explain the
// result set. It never returns an error to the caller: any internal failure
// degrades to a ResultSet with the Error field set and empty collections.
type Service struct {
	analyzer QueryAnalyzer
	engine   Engine
	limit    int
	log      zerolog.Logger
}

// NewService creates a search service. limit is the default result cap used
// when the caller passes none; <= 0 falls back to 20.
func NewService(analyzer QueryAnalyzer, engine Engine, limit int, log zerolog.Logger) *Service {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Service{
		analyzer: analyzer,
		engine:   engine,
		limit:    limit,
		log:      log,
	}
}

// Search runs a natural-language search. searchType is "transactions",
// "documents", "all", or empty to infer from the resolved intent.
func (s *Service) Search(ctx context.Context, query, searchType string, limit int) *domain.ResultSet {
	if limit <= 0 {
		limit = s.limit
	}

	analysis := s.analyzer.AnalyzeQuery(ctx, query)

	if searchType == "" {
		searchType = guessSearchType(analysis.Intent, query)
	}

	result := &domain.ResultSet{
		Query:        query,
		Intent:       analysis.Intent,
		Parameters:   analysis.Parameters,
		Transactions: []domain.Transaction{},
		Documents:    []domain.Document{},
	}

	if searchType == "transactions" || searchType == "all" {
		txs, err := s.engine.SearchTransactions(ctx, transactionFilters(analysis.Parameters), limit)
		if err != nil {
			s.log.Error().Err(err).Str("query", query).Msg("transaction search failed")
			return degraded(query, err)
		}
		result.Transactions = txs
	}

	if searchType == "documents" || searchType == "all" {
		docs, err := s.engine.SearchDocuments(ctx, documentFilters(analysis.Parameters), limit)
		if err != nil {
			s.log.Error().Err(err).Str("query", query).Msg("document search failed")
			return degraded(query, err)
		}
		result.Documents = docs
	}

	result.Explanation = Explain(result)
	return result
}

// SearchText is a plain text search passthrough. Failures degrade to an
// empty result list so a broken index never fails a caller.
func (s *Service) SearchText(ctx context.Context, query, referenceType string, limit int) []TextResult {
	if limit <= 0 {
		limit = s.limit
	}
	results, err := s.engine.TextSearch(ctx, query, referenceType, limit)
	if err != nil {
		s.log.Error().Err(err).Str("query", query).Msg("text search failed")
		return []TextResult{}
	}
	return results
}

func degraded(query string, err error) *domain.ResultSet {
	return &domain.ResultSet{
		Query:        query,
		Error:        err.Error(),
		Transactions: []domain.Transaction{},
		Documents:    []domain.Document{},
	}
}

func guessSearchType(intent domain.Intent, query string) string {
	switch intent {
	case domain.IntentTransactionSearch, domain.IntentTransactionList:
		return "transactions"
	case domain.IntentDocumentProcess:
		return "documents"
	}
	if strings.Contains(strings.ToLower(query), "document") {
		return "documents"
	}
	return "all"
}

func transactionFilters(params map[string]any) TransactionFilters {
	var f TransactionFilters

	if raw, ok := params["filters"].(map[string]any); ok {
		f.Type = stringParam(raw, "type")
		f.Category = stringParam(raw, "category")
		f.StartDate = stringParam(raw, "start_date")
		f.EndDate = stringParam(raw, "end_date")
		if v, ok := numberParam(raw, "min_amount"); ok {
			f.MinAmount = &v
		}
		if v, ok := numberParam(raw, "max_amount"); ok {
			f.MaxAmount = &v
		}
	}

	// A top-level category parameter (possibly forced by keyword override)
	// wins over whatever the nested filters said.
	if cat := stringParam(params, "category"); cat != "" {
		f.Category = cat
	}

	return f
}

func documentFilters(params map[string]any) DocumentFilters {
	var f DocumentFilters
	if raw, ok := params["filters"].(map[string]any); ok {
		f.Type = stringParam(raw, "type")
		f.StartDate = stringParam(raw, "start_date")
		f.EndDate = stringParam(raw, "end_date")
	}
	if t := stringParam(params, "document_type"); t != "" {
		f.Type = t
	}
	return f
}

func stringParam(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func numberParam(m map[string]any, key string) (float64, bool) {
	f, ok := m[key].(float64)
	return f, ok
}
